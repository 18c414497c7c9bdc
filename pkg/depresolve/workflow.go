// Package depresolve computes the transitive dependency closure of a set of
// selected resources.
//
// A Workflow runs at most one resolution at a time and moves through the
// states Idle → Running → {Succeeded, Failed, Skipped}. The closure crawl is
// concurrent: a worker pool fetches project metadata and version listings
// while a visited set and a pending counter decide when the frontier is
// exhausted. Cancelling the context skips the resolution without producing
// a partial result.
package depresolve

import (
	"context"
	"sync"
	"time"

	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/observability"
)

// State is the lifecycle phase of a Workflow.
type State int

// Workflow states.
const (
	Idle State = iota
	Running
	Succeeded
	Failed
	Skipped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// ErrSkipped is returned by Run when the resolution was cancelled before
// completing. A skipped resolution produces no closure.
var ErrSkipped = errors.New(errors.ErrCodeResolutionSkipped, "dependency resolution skipped")

// Source supplies provider metadata to the crawl. *providers.Mux satisfies it.
type Source interface {
	Project(ctx context.Context, provider mod.Provider, projectID string) (mod.Pack, error)
	Versions(ctx context.Context, provider mod.Provider, projectID, gameVersion, loader string) ([]mod.Version, error)
}

// Pair is one discovered dependency: the pack and the version chosen for it.
type Pair struct {
	Pack    mod.Pack
	Version *mod.Version
}

// Closure is the result of a successful resolution: discovered pairs in
// production order plus non-fatal warnings.
type Closure struct {
	Pairs    []Pair
	Warnings []string
}

// Options configures a resolution run.
type Options struct {
	// GameVersion and Loader filter candidate versions. Empty values
	// match everything.
	GameVersion string
	Loader      string

	// Satisfied reports whether a project id is already covered by the
	// current selection, so the crawl does not rediscover it.
	Satisfied func(projectID string) bool

	// MaxDepth bounds the crawl depth. Zero means the default.
	MaxDepth int

	// Workers sets the crawl worker count. Zero means the default.
	Workers int

	// Logf receives non-fatal crawl diagnostics. Nil discards them.
	Logf func(format string, args ...any)
}

const (
	defaultWorkers  = 8
	defaultMaxDepth = 16
)

// WithDefaults fills unset options.
func (o Options) WithDefaults() Options {
	if o.Satisfied == nil {
		o.Satisfied = func(string) bool { return false }
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Logf == nil {
		o.Logf = func(string, ...any) {}
	}
	return o
}

// Workflow runs dependency resolutions against a metadata source.
// At most one resolution is in flight at a time.
type Workflow struct {
	src  Source
	opts Options

	mu    sync.Mutex
	state State
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(src Source, opts Options) *Workflow {
	return &Workflow{src: src, opts: opts.WithDefaults(), state: Idle}
}

// State returns the current lifecycle phase.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run computes the dependency closure of the given selection.
//
// Only required dependencies of resources whose target supports dependency
// metadata are followed; dependencies already satisfied by the selection are
// filtered out. Run returns ErrSkipped if ctx is cancelled, in which case no
// closure is produced and the state is Skipped. Any metadata fetch failure is
// terminal and leaves the state Failed. A dependency with no version
// compatible with the configured game version and loader produces a warning
// in the closure, not a failure.
func (w *Workflow) Run(ctx context.Context, tasks []*mod.DownloadTask) (*Closure, error) {
	w.mu.Lock()
	if w.state == Running {
		w.mu.Unlock()
		return nil, errors.New(errors.ErrCodeInternal, "a resolution is already in flight")
	}
	w.state = Running
	w.mu.Unlock()

	start := time.Now()
	observability.Resolution().OnResolveStart(ctx, len(tasks))

	closure, err := w.crawl(ctx, tasks)

	final := Succeeded
	switch {
	case errors.Is(err, errors.ErrCodeResolutionSkipped):
		final = Skipped
	case err != nil:
		final = Failed
	}
	w.mu.Lock()
	w.state = final
	w.mu.Unlock()

	found, warnings := 0, 0
	if closure != nil {
		found, warnings = len(closure.Pairs), len(closure.Warnings)
	}
	observability.Resolution().OnResolveComplete(ctx, found, warnings, time.Since(start), err)

	return closure, err
}

func (w *Workflow) crawl(ctx context.Context, tasks []*mod.DownloadTask) (*Closure, error) {
	seeds := seedJobs(tasks, w.opts.Satisfied)
	if len(seeds) == 0 {
		return &Closure{}, nil
	}

	// The crawl owns a derived context so shutdown can release workers
	// blocked on channel sends even when the caller never cancels.
	runCtx, cancel := context.WithCancel(ctx)
	c := &crawler{
		ctx:        runCtx,
		cancel:     cancel,
		opts:       w.opts,
		src:        w.src,
		visited:    make(map[string]bool),
		requiredBy: make(map[string][]string),
		byKey:      make(map[string]*Pair),
		jobs:       make(chan job, w.opts.Workers*2),
		results:    make(chan result, w.opts.Workers*2),
	}
	return c.run(seeds)
}

// seedJobs builds the crawl frontier from the selection's declared
// dependencies. Optional, incompatible, and embedded dependencies are not
// followed; neither are dependencies the selection already provides.
func seedJobs(tasks []*mod.DownloadTask, satisfied func(string) bool) []job {
	var seeds []job
	for _, t := range tasks {
		if t.Target != nil && !t.Target.SupportsDependencies() {
			continue
		}
		if t.Version == nil {
			continue
		}
		for _, dep := range t.Version.Dependencies {
			if dep.Type != mod.DepRequired || dep.ProjectID == "" {
				continue
			}
			if satisfied(dep.ProjectID) {
				continue
			}
			seeds = append(seeds, job{
				provider:   t.Pack.Provider,
				dep:        dep,
				requiredBy: t.Pack.ID,
			})
		}
	}
	return seeds
}
