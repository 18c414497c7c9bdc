package depresolve

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"

	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/observability"
)

type crawler struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
	src    Source

	jobs    chan job
	results chan result
	wg      sync.WaitGroup

	mu         sync.Mutex
	visited    map[string]bool
	requiredBy map[string][]string // crawl key → pack ids that pulled it in
	byKey      map[string]*Pair
	pending    int64
	closing    int32 // atomic flag: 1 when shutting down (prevents sends to closed channel)

	pairs    []*Pair
	warnings []string
}

type job struct {
	provider   mod.Provider
	dep        mod.Dependency
	requiredBy string // pack id that declared the dependency
	depth      int
}

func (j job) key() string { return string(j.provider) + ":" + j.dep.ProjectID }

type result struct {
	job
	pack     mod.Pack
	versions []mod.Version
	err      error
}

func (c *crawler) run(seeds []job) (*Closure, error) {
	for i := 0; i < c.opts.Workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	for _, s := range seeds {
		c.enqueue(s)
	}
	err := c.collect()

	// Signal shutdown before closing the channel so in-flight enqueue
	// goroutines stop sending, then release anything still blocked.
	atomic.StoreInt32(&c.closing, 1)
	c.cancel()
	close(c.jobs)
	c.wg.Wait()

	if err != nil {
		return nil, err
	}
	out := &Closure{Warnings: c.warnings}
	for _, p := range c.pairs {
		out.Pairs = append(out.Pairs, *p)
	}
	return out, nil
}

func (c *crawler) worker() {
	defer c.wg.Done()
	for j := range c.jobs {
		if c.ctx.Err() != nil || atomic.LoadInt32(&c.closing) == 1 {
			atomic.AddInt64(&c.pending, -1)
			continue
		}
		pack, versions, err := c.fetch(j)
		select {
		case c.results <- result{job: j, pack: pack, versions: versions, err: err}:
		case <-c.ctx.Done():
			// Nobody is collecting anymore.
			atomic.AddInt64(&c.pending, -1)
		}
	}
}

func (c *crawler) fetch(j job) (mod.Pack, []mod.Version, error) {
	pack, err := c.src.Project(c.ctx, j.provider, j.dep.ProjectID)
	if err != nil {
		return mod.Pack{}, nil, err
	}
	versions, err := c.src.Versions(c.ctx, j.provider, j.dep.ProjectID, c.opts.GameVersion, c.opts.Loader)
	if err != nil {
		return mod.Pack{}, nil, err
	}
	return pack, versions, nil
}

// enqueue schedules a job unless its project was already visited. The
// required-by backlink is recorded either way, so a project reached over
// several paths ends up required by all of them.
func (c *crawler) enqueue(j job) {
	if atomic.LoadInt32(&c.closing) == 1 {
		return
	}

	key := j.key()

	c.mu.Lock()
	if j.requiredBy != "" && !contains(c.requiredBy[key], j.requiredBy) {
		c.requiredBy[key] = append(c.requiredBy[key], j.requiredBy)
		if p, ok := c.byKey[key]; ok {
			p.Version.RequiredBy = append(p.Version.RequiredBy, j.requiredBy)
		}
	}
	if c.visited[key] {
		c.mu.Unlock()
		return
	}
	c.visited[key] = true
	c.mu.Unlock()

	atomic.AddInt64(&c.pending, 1)

	// Send in a goroutine to avoid blocking the collect loop.
	go func() {
		defer func() {
			// A send that still races the channel close counts as aborted.
			if recover() != nil {
				atomic.AddInt64(&c.pending, -1)
			}
		}()

		if atomic.LoadInt32(&c.closing) == 1 {
			atomic.AddInt64(&c.pending, -1)
			return
		}

		select {
		case c.jobs <- j:
		case <-c.ctx.Done():
			atomic.AddInt64(&c.pending, -1)
		}
	}()
}

func (c *crawler) collect() error {
	for {
		select {
		case r := <-c.results:
			if err := c.handle(r); err != nil {
				return err
			}
			if atomic.AddInt64(&c.pending, -1) == 0 {
				return nil
			}
		case <-c.ctx.Done():
			return fmt.Errorf("%w: %v", ErrSkipped, c.ctx.Err())
		}
	}
}

func (c *crawler) handle(r result) error {
	if r.err != nil {
		return fmt.Errorf("resolving %s: %w", r.dep.ProjectID, r.err)
	}

	ver := pickVersion(r.versions, r.dep, c.opts.GameVersion, c.opts.Loader)
	if ver == nil {
		c.warnf("%s has no version compatible with %s (%s)",
			r.pack.Name, c.opts.GameVersion, c.opts.Loader)
		return nil
	}

	key := r.key()
	c.mu.Lock()
	ver.RequiredBy = append([]string(nil), c.requiredBy[key]...)
	pair := &Pair{Pack: r.pack, Version: ver}
	c.pairs = append(c.pairs, pair)
	c.byKey[key] = pair
	c.mu.Unlock()

	observability.Resolution().OnDependencyFound(c.ctx, string(r.provider), r.dep.ProjectID)
	c.opts.Logf("dependency found: %s (%s)", r.pack.Name, r.dep.ProjectID)

	c.enqueueDeps(r, ver)
	return nil
}

func (c *crawler) enqueueDeps(r result, ver *mod.Version) {
	if r.depth >= c.opts.MaxDepth {
		c.warnf("%s exceeds the dependency depth limit; deeper dependencies were not resolved", r.pack.Name)
		return
	}
	for _, dep := range ver.Dependencies {
		if dep.Type != mod.DepRequired || dep.ProjectID == "" {
			continue
		}
		if c.opts.Satisfied(dep.ProjectID) {
			continue
		}
		c.enqueue(job{
			provider:   r.provider,
			dep:        dep,
			requiredBy: r.pack.ID,
			depth:      r.depth + 1,
		})
	}
}

func (c *crawler) warnf(format string, args ...any) {
	c.mu.Lock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

// pickVersion chooses the version to install for a dependency.
//
// A pinned version id wins outright. Otherwise a declared semver constraint
// narrows the candidates, and the first compatible version (listings are
// newest-first) is taken. Returns nil when nothing qualifies.
func pickVersion(versions []mod.Version, dep mod.Dependency, gameVersion, loader string) *mod.Version {
	if dep.VersionID != "" {
		for i := range versions {
			if versions[i].ID == dep.VersionID {
				return &versions[i]
			}
		}
		// The pinned version may be filtered out server-side; fall through
		// to constraint matching rather than failing the whole branch.
	}

	var constraint *semver.Constraints
	if dep.Constraint != "" {
		if parsed, err := semver.NewConstraint(dep.Constraint); err == nil {
			constraint = parsed
		}
	}

	for i := range versions {
		v := &versions[i]
		if !v.CompatibleWith(gameVersion, loader) {
			continue
		}
		if constraint != nil {
			num, err := semver.NewVersion(v.Number)
			if err != nil || !constraint.Check(num) {
				continue
			}
		}
		return v
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
