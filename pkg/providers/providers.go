// Package providers defines the content-provider boundary: the capability
// table describing each provider, the shared HTTP client provider API
// clients are built on, and the metadata mux that dispatches dependency
// lookups to the right provider.
package providers

import (
	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
)

// Provider ids. These match the values carried on mod.Pack.Provider.
const (
	Modrinth mod.Provider = "modrinth"
	Flame    mod.Provider = "flame"
)

// Info describes one content provider's identity and capabilities.
type Info struct {
	ID          mod.Provider
	DisplayName string
	Kinds       []mod.Kind // resource kinds browsable on this provider
}

// Supports reports whether the provider can serve the given resource kind.
func (i Info) Supports(kind mod.Kind) bool {
	for _, k := range i.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Table is an injected, read-only lookup of provider capabilities.
// Components receive a Table instead of consulting process-wide state.
type Table struct {
	infos map[mod.Provider]Info
	order []mod.Provider
}

// NewTable builds a table from the given provider infos.
// Order is preserved for display purposes.
func NewTable(infos ...Info) Table {
	t := Table{infos: make(map[mod.Provider]Info, len(infos))}
	for _, info := range infos {
		if _, dup := t.infos[info.ID]; dup {
			continue
		}
		t.infos[info.ID] = info
		t.order = append(t.order, info.ID)
	}
	return t
}

// DefaultTable returns the built-in provider set.
func DefaultTable() Table {
	return NewTable(
		Info{
			ID:          Modrinth,
			DisplayName: "Modrinth",
			Kinds:       []mod.Kind{mod.KindMod, mod.KindResourcePack, mod.KindTexturePack, mod.KindShaderPack},
		},
		Info{
			ID:          Flame,
			DisplayName: "CurseForge",
			// No shader pack category on the Flame API.
			Kinds: []mod.Kind{mod.KindMod, mod.KindResourcePack, mod.KindTexturePack},
		},
	)
}

// Get returns the info for a provider id.
func (t Table) Get(id mod.Provider) (Info, error) {
	info, ok := t.infos[id]
	if !ok {
		return Info{}, errors.New(errors.ErrCodeInvalidProvider, "unknown provider: %s", id)
	}
	return info, nil
}

// DisplayName returns the human-readable provider name, falling back to the
// raw id for providers missing from the table.
func (t Table) DisplayName(id mod.Provider) string {
	if info, ok := t.infos[id]; ok {
		return info.DisplayName
	}
	return string(id)
}

// Supports reports whether the provider serves the given kind.
// Unknown providers support nothing.
func (t Table) Supports(id mod.Provider, kind mod.Kind) bool {
	info, ok := t.infos[id]
	return ok && info.Supports(kind)
}

// IDs returns the provider ids in table order.
func (t Table) IDs() []mod.Provider {
	out := make([]mod.Provider, len(t.order))
	copy(out, t.order)
	return out
}
