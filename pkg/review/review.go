// Package review builds the confirmation view of a download session and
// applies the user's final decision to the selection registry.
package review

import (
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
	"github.com/modsmith/modsmith/pkg/selection"
)

// Row is one line of the confirmation list. It keeps a handle on the
// underlying task so that deselections remove exactly the entry the user
// saw, not whatever happens to share the name at commit time.
type Row struct {
	Task *mod.DownloadTask

	Name       string
	FileName   string
	CustomPath string
	Provider   string   // display name, not the raw id
	RequiredBy []string // names of selected packs that pulled this one in
	Indexed    bool     // discovered by dependency resolution
}

// Build produces review rows from the registry, sorted by pack name
// case-insensitively.
func Build(reg *selection.Registry, table providers.Table) []Row {
	rows := make([]Row, 0, reg.Len())
	for _, t := range reg.SortedTasks() {
		rows = append(rows, Row{
			Task:       t,
			Name:       t.Pack.Name,
			FileName:   t.FileName(),
			CustomPath: t.CustomPath,
			Provider:   table.DisplayName(t.Pack.Provider),
			RequiredBy: reg.RequiredBy(t.Version.RequiredBy),
			Indexed:    t.Indexed,
		})
	}
	return rows
}

// Decision is the outcome of a review. When Approved is false the session
// stays open and nothing is removed, regardless of Deselected.
type Decision struct {
	Approved   bool
	Deselected []*mod.DownloadTask
}

// Commit applies an approving decision: the deselected tasks are removed
// from the registry and the surviving ones stay. It reports whether the
// decision was an approval.
func Commit(reg *selection.Registry, d Decision) bool {
	if !d.Approved {
		return false
	}
	for _, t := range d.Deselected {
		reg.RemoveTask(t)
	}
	return true
}
