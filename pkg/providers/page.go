package providers

import (
	"context"

	"github.com/modsmith/modsmith/pkg/mod"
)

// Page is the browsable view of one provider for one resource kind.
// It carries the current search term, the fetched results, and per-pack
// selection markers that mirror the session's selection registry.
//
// Pages are session-scoped and not safe for concurrent use.
type Page struct {
	provider mod.Provider
	kind     mod.Kind
	backend  Metadata

	searchTerm string
	packs      []mod.Pack
	marked     map[string]bool
}

// NewPage creates a page backed by the given metadata client.
func NewPage(provider mod.Provider, kind mod.Kind, backend Metadata) *Page {
	return &Page{
		provider: provider,
		kind:     kind,
		backend:  backend,
		marked:   make(map[string]bool),
	}
}

// Provider returns the provider this page browses.
func (p *Page) Provider() mod.Provider { return p.provider }

// Kind returns the resource kind this page lists.
func (p *Page) Kind() mod.Kind { return p.kind }

// SearchTerm returns the current search term.
func (p *Page) SearchTerm() string { return p.searchTerm }

// SetSearchTerm updates the search term and reports whether it changed.
// It does not trigger a search; call Search to refresh results.
func (p *Page) SetSearchTerm(term string) bool {
	if term == p.searchTerm {
		return false
	}
	p.searchTerm = term
	return true
}

// Search fetches results for the current term and replaces the listing.
// Selection markers for packs still present in the results are kept.
func (p *Page) Search(ctx context.Context) error {
	packs, err := p.backend.Search(ctx, p.kind, p.searchTerm)
	if err != nil {
		return err
	}
	p.packs = packs
	return nil
}

// Packs returns the current listing in provider order.
func (p *Page) Packs() []mod.Pack { return p.packs }

// MarkSelected flags a pack name as part of the current selection.
func (p *Page) MarkSelected(name string) { p.marked[name] = true }

// ClearSelection removes the selection marker for a pack name.
// Clearing an unmarked name is a no-op.
func (p *Page) ClearSelection(name string) { delete(p.marked, name) }

// IsSelected reports whether a pack name is marked as selected.
func (p *Page) IsSelected(name string) bool { return p.marked[name] }
