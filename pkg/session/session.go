// Package session orchestrates one resource download session: the browse
// pages, the selection registry, dependency resolution, and the final
// review. It owns the confirm state machine; the interactive surfaces it
// drives are injected as interfaces so the same flow works under a TUI or
// a plain prompt.
package session

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/modsmith/modsmith/pkg/depresolve"
	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
	"github.com/modsmith/modsmith/pkg/review"
	"github.com/modsmith/modsmith/pkg/selection"
)

// Page is a browsable provider view participating in a session. It carries
// a search term that follows the user across page switches, serves the
// results of the last search, and keeps selection markers the registry
// clears in sync. Callers work against this interface only; the concrete
// provider page never leaks out of the session.
type Page interface {
	selection.PageClearer

	Provider() mod.Provider
	Kind() mod.Kind
	SearchTerm() string
	SetSearchTerm(term string) bool
	Search(ctx context.Context) error
	Packs() []mod.Pack
	MarkSelected(name string)
}

// Config wires a session's collaborators.
type Config struct {
	Target   mod.Target
	Table    providers.Table
	Source   depresolve.Source
	Resolve  depresolve.Options
	Progress ProgressSurface
	Messages MessageSurface
	Reviews  ReviewSurface
	Logger   *log.Logger
}

// Session is the stateful orchestrator of one download flow. It is not safe
// for concurrent use; all calls come from the interaction loop.
type Session struct {
	log      *log.Logger
	target   mod.Target
	table    providers.Table
	registry *selection.Registry
	workflow *depresolve.Workflow

	progress ProgressSurface
	messages MessageSurface
	reviews  ReviewSurface

	pages     map[string]Page
	pageOrder []string
	current   string

	accepted bool
}

// New creates a session for the given target.
func New(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	reg := selection.NewRegistry(cfg.Target)
	opts := cfg.Resolve
	if opts.Satisfied == nil {
		opts.Satisfied = reg.Satisfies
	}
	return &Session{
		log:      cfg.Logger,
		target:   cfg.Target,
		table:    cfg.Table,
		registry: reg,
		workflow: depresolve.NewWorkflow(cfg.Source, opts),
		progress: cfg.Progress,
		messages: cfg.Messages,
		reviews:  cfg.Reviews,
		pages:    make(map[string]Page),
	}
}

// Registry exposes the selection registry for surfaces that render counts.
func (s *Session) Registry() *selection.Registry { return s.registry }

// AddPage registers a browse page under an id. The first page added becomes
// the selected one.
func (s *Session) AddPage(id string, p Page) {
	if _, dup := s.pages[id]; dup {
		return
	}
	s.pages[id] = p
	s.pageOrder = append(s.pageOrder, id)
	s.registry.RegisterPage(p)
	if s.current == "" {
		s.current = id
	}
}

// PageIDs returns the registered page ids in registration order.
func (s *Session) PageIDs() []string {
	out := make([]string, len(s.pageOrder))
	copy(out, s.pageOrder)
	return out
}

// SelectPage switches the active page, carrying the previous page's search
// term over so the user's query follows them. Selecting an unknown id is
// logged and ignored.
func (s *Session) SelectPage(id string) {
	next, ok := s.pages[id]
	if !ok {
		s.log.Error("selected page does not exist", "page", id)
		return
	}
	if prev, ok := s.pages[s.current]; ok && s.current != id {
		next.SetSearchTerm(prev.SearchTerm())
	}
	s.current = id
}

// SelectedPage returns the active page, or nil when none is registered.
func (s *Session) SelectedPage() Page {
	return s.pages[s.current]
}

// AddResource registers a user pick. An existing entry under the same pack
// name is replaced.
func (s *Session) AddResource(pack mod.Pack, ver *mod.Version) {
	s.registry.Add(pack, ver, false)
}

// RemoveResource drops a pick. Removing something that was never picked is
// a no-op.
func (s *Session) RemoveResource(pack mod.Pack, ver *mod.Version) {
	s.registry.Remove(pack, ver)
}

// Selected reports whether a pack name is currently registered.
func (s *Session) Selected(name string) bool {
	_, ok := s.registry.Get(name)
	return ok
}

// Confirm runs the confirmation flow: dependency resolution (when the
// target supports it), then review. It returns true when the user accepted,
// false when the flow was aborted or declined and the session stays open.
//
// A skipped resolution aborts the confirm without touching the selection.
// A failed resolution is surfaced once and the flow continues with the
// direct picks only. Resolution results merge into the registry strictly
// after a successful run, in production order; a dependency that collides
// with a direct pick overwrites it.
func (s *Session) Confirm(ctx context.Context) (bool, error) {
	if s.registry.Len() == 0 {
		s.accepted = true
		return true, nil
	}

	if s.target.SupportsDependencies() {
		proceed, err := s.resolveDependencies(ctx)
		if err != nil {
			return false, err
		}
		if !proceed {
			return false, nil
		}
	}

	rows := review.Build(s.registry, s.table)
	decision, err := s.reviews.Review(rows)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "review failed")
	}
	if !review.Commit(s.registry, decision) {
		return false, nil
	}

	s.accepted = true
	return true, nil
}

// resolveDependencies runs the workflow behind the progress surface.
// The bool result is false when the user skipped and the confirm flow
// must abort.
func (s *Session) resolveDependencies(ctx context.Context) (bool, error) {
	var closure *depresolve.Closure
	err := s.progress.Run(ctx, "Checking for dependencies...", func(ctx context.Context) error {
		var runErr error
		closure, runErr = s.workflow.Run(ctx, s.registry.Tasks())
		return runErr
	})

	switch {
	case errors.Is(err, errors.ErrCodeResolutionSkipped):
		s.log.Info("dependency resolution skipped")
		return false, nil
	case err != nil:
		// Surfaced once; the user can still review the direct picks.
		s.log.Error("dependency resolution failed", "err", err)
		s.messages.Error("Dependency resolution failed: " + errors.UserMessage(err))
		return true, nil
	}

	if len(closure.Warnings) > 0 {
		s.messages.Warn(strings.Join(closure.Warnings, "\n"))
	}
	for _, p := range closure.Pairs {
		s.registry.Add(p.Pack, p.Version, true)
	}
	if n := len(closure.Pairs); n > 0 {
		s.log.Info("dependencies added to selection", "count", n)
	}
	return true, nil
}

// Accepted reports whether the session was confirmed and committed.
func (s *Session) Accepted() bool { return s.accepted }

// Tasks returns the finalized download list in selection order. It is only
// populated after the session was accepted.
func (s *Session) Tasks() []*mod.DownloadTask {
	if !s.accepted {
		return nil
	}
	return s.registry.Tasks()
}
