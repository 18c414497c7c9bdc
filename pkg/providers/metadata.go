package providers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modsmith/modsmith/pkg/cache"
	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/observability"
)

// Metadata is the read side of a content provider: project lookups,
// version listings, and search. Both API clients implement it.
type Metadata interface {
	// Project fetches pack metadata for a project id.
	Project(ctx context.Context, projectID string) (mod.Pack, error)

	// Versions lists the versions of a project, newest first,
	// filtered to the given game version and loader where the
	// provider API supports server-side filtering.
	Versions(ctx context.Context, projectID, gameVersion, loader string) ([]mod.Version, error)

	// Search queries the provider for packs of the given kind.
	Search(ctx context.Context, kind mod.Kind, query string) ([]mod.Pack, error)
}

// Mux dispatches metadata lookups to the provider that owns the project
// and memoizes results in a cache so the dependency crawl doesn't refetch
// the same project for every resource that depends on it.
type Mux struct {
	backends map[mod.Provider]Metadata
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
}

// MuxOption configures a Mux.
type MuxOption func(*Mux)

// WithCache sets the memoization cache and key derivation.
// Without it the mux uses a NullCache and every lookup hits the backend.
func WithCache(c cache.Cache, k cache.Keyer, ttl time.Duration) MuxOption {
	return func(m *Mux) {
		m.cache = c
		m.keyer = k
		m.ttl = ttl
	}
}

// NewMux creates a mux over the given backends.
func NewMux(backends map[mod.Provider]Metadata, opts ...MuxOption) *Mux {
	m := &Mux{
		backends: backends,
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mux) backend(id mod.Provider) (Metadata, error) {
	b, ok := m.backends[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "no metadata backend for provider: %s", id)
	}
	return b, nil
}

// Project fetches pack metadata through the owning provider's backend.
func (m *Mux) Project(ctx context.Context, provider mod.Provider, projectID string) (mod.Pack, error) {
	b, err := m.backend(provider)
	if err != nil {
		return mod.Pack{}, err
	}

	key := m.keyer.ProjectKey(string(provider), projectID)
	var pack mod.Pack
	if m.lookup(ctx, key, "project", &pack) {
		return pack, nil
	}

	pack, err = b.Project(ctx, projectID)
	if err != nil {
		return mod.Pack{}, err
	}
	m.store(ctx, key, "project", pack)
	return pack, nil
}

// Versions lists a project's versions through the owning provider's backend.
func (m *Mux) Versions(ctx context.Context, provider mod.Provider, projectID, gameVersion, loader string) ([]mod.Version, error) {
	b, err := m.backend(provider)
	if err != nil {
		return nil, err
	}

	key := m.keyer.VersionsKey(string(provider), projectID+"\x00"+gameVersion+"\x00"+loader)
	var versions []mod.Version
	if m.lookup(ctx, key, "versions", &versions) {
		return versions, nil
	}

	versions, err = b.Versions(ctx, projectID, gameVersion, loader)
	if err != nil {
		return nil, err
	}
	m.store(ctx, key, "versions", versions)
	return versions, nil
}

// Search queries a provider for packs. Search results are not memoized:
// result ordering is relevance-scored and query strings rarely repeat.
func (m *Mux) Search(ctx context.Context, provider mod.Provider, kind mod.Kind, query string) ([]mod.Pack, error) {
	b, err := m.backend(provider)
	if err != nil {
		return nil, err
	}
	return b.Search(ctx, kind, query)
}

func (m *Mux) lookup(ctx context.Context, key, keyType string, v any) bool {
	data, ok, err := m.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Treat a corrupt entry as a miss and let the refetch overwrite it.
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (m *Mux) store(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := m.cache.Set(ctx, key, data, m.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
}
