// Package selection maintains the deduplicated set of resources a user has
// chosen during a download session.
//
// The registry maps pack display names to exactly one download task each.
// Adding a pack that is already present replaces the previous entry and
// clears its version's selected flag, so a pack can never have two active
// versions at once. Provider pages register a PageClearer so that removing
// a pack through one page also clears its selection marker on every other
// page showing it.
package selection

import (
	"slices"
	"strings"

	"github.com/modsmith/modsmith/pkg/mod"
)

// PageClearer is the capability a provider page exposes to the registry:
// dropping any UI-level selection marker it holds for a pack name.
// Pages that do not show the pack simply ignore the call.
type PageClearer interface {
	ClearSelection(name string)
}

// Registry is the deduplicated map of currently chosen downloads.
// It is exclusively owned by the session orchestrator; mutation is
// synchronous and never happens while dependency resolution is in flight.
type Registry struct {
	target mod.Target
	pages  []PageClearer
	tasks  map[string]*mod.DownloadTask
	order  []string // insertion order of keys
}

// NewRegistry creates an empty registry whose tasks install into target.
func NewRegistry(target mod.Target) *Registry {
	return &Registry{
		target: target,
		tasks:  make(map[string]*mod.DownloadTask),
	}
}

// RegisterPage adds a provider page to be notified when entries are removed.
func (r *Registry) RegisterPage(p PageClearer) {
	r.pages = append(r.pages, p)
}

// Add inserts a download task for (pack, ver), replacing any existing entry
// under the same pack name. The replaced entry's version loses its selected
// flag before the new one is marked selected. Add never fails.
func (r *Registry) Add(pack mod.Pack, ver *mod.Version, indexed bool) {
	r.Remove(pack, ver)

	ver.Selected = true
	if _, exists := r.tasks[pack.Name]; !exists {
		r.order = append(r.order, pack.Name)
	}
	r.tasks[pack.Name] = mod.NewDownloadTask(pack, ver, r.target, indexed)
}

// Remove drops the entry for pack.Name, if present. The entry's version and
// the passed ver both lose their selected flag, and every registered page is
// told to clear its selection marker for the name. Removing an absent key is
// a no-op, so Remove is idempotent.
func (r *Registry) Remove(pack mod.Pack, ver *mod.Version) {
	prev, ok := r.tasks[pack.Name]
	if !ok {
		return
	}

	// All versions of the pack are deselected, including the one being
	// handed in for a replacement Add.
	prev.Version.Selected = false
	ver.Selected = false

	for _, p := range r.pages {
		p.ClearSelection(pack.Name)
	}

	delete(r.tasks, pack.Name)
	if i := slices.Index(r.order, pack.Name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// RemoveTask removes a previously returned task by its in-memory identity.
// Used by the review commit step, which holds tasks rather than picks.
func (r *Registry) RemoveTask(t *mod.DownloadTask) {
	r.Remove(t.Pack, t.Version)
}

// Get returns the task registered under the given pack name.
func (r *Registry) Get(name string) (*mod.DownloadTask, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int { return len(r.tasks) }

// Tasks returns a snapshot of the current tasks in insertion order.
func (r *Registry) Tasks() []*mod.DownloadTask {
	out := make([]*mod.DownloadTask, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tasks[name])
	}
	return out
}

// SortedTasks returns the current tasks sorted by pack name,
// case-insensitively. This is the order the review step displays.
func (r *Registry) SortedTasks() []*mod.DownloadTask {
	out := r.Tasks()
	slices.SortStableFunc(out, func(a, b *mod.DownloadTask) int {
		return strings.Compare(strings.ToLower(a.Pack.Name), strings.ToLower(b.Pack.Name))
	})
	return out
}

// RequiredBy maps pack ids to the display names of the registered packs that
// carry them. For each id the first matching entry wins. Ids with no match
// are silently dropped; at session scale a linear scan per id is fine.
func (r *Registry) RequiredBy(ids []string) []string {
	var names []string
	for _, id := range ids {
		for _, name := range r.order {
			if r.tasks[name].Pack.ID == id {
				names = append(names, r.tasks[name].Pack.Name)
				break
			}
		}
	}
	return names
}

// Satisfies reports whether some registered task already provides the given
// project id. Dependency resolution uses this to filter out dependencies the
// user has already selected.
func (r *Registry) Satisfies(projectID string) bool {
	for _, t := range r.tasks {
		if t.Pack.ID == projectID {
			return true
		}
	}
	return false
}
