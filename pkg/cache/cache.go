// Package cache provides byte-level caching for resolved dependency
// metadata with pluggable backends.
//
// Three backends are provided:
//   - FileCache: directory-backed, for normal CLI usage
//   - RedisCache: shared cache for multi-machine setups
//   - NullCache: disables caching (--no-cache, tests)
//
// Keys are produced by a Keyer so that callers never concatenate raw
// strings; ScopedKeyer prefixes keys when several contexts share one
// backend.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
// Values are opaque byte slices; callers handle serialization.
type Cache interface {
	// Get retrieves a value. ok is false on a miss; err reports backend
	// failures only, never misses.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value with the given TTL. A TTL of 0 stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different lookup families.
type Keyer interface {
	// ProjectKey is the key for a provider project lookup.
	ProjectKey(provider, projectID string) string
	// VersionsKey is the key for a provider version-list lookup.
	VersionsKey(provider, projectID string) string
	// SearchKey is the key for a provider search result.
	SearchKey(provider, kind, query string) string
}

// DefaultKeyer produces hashed, collision-free keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ProjectKey generates a key for a project metadata lookup.
func (DefaultKeyer) ProjectKey(provider, projectID string) string {
	return hashKey("project", provider, projectID)
}

// VersionsKey generates a key for a version-list lookup.
func (DefaultKeyer) VersionsKey(provider, projectID string) string {
	return hashKey("versions", provider, projectID)
}

// SearchKey generates a key for a search result.
func (DefaultKeyer) SearchKey(provider, kind, query string) string {
	return hashKey("search", provider, kind, query)
}

// ScopedKeyer wraps a Keyer with a prefix so that separate instances
// (or game versions) sharing one backend stay isolated.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ProjectKey generates a prefixed project key.
func (k *ScopedKeyer) ProjectKey(provider, projectID string) string {
	return k.prefix + k.inner.ProjectKey(provider, projectID)
}

// VersionsKey generates a prefixed versions key.
func (k *ScopedKeyer) VersionsKey(provider, projectID string) string {
	return k.prefix + k.inner.VersionsKey(provider, projectID)
}

// SearchKey generates a prefixed search key.
func (k *ScopedKeyer) SearchKey(provider, kind, query string) string {
	return k.prefix + k.inner.SearchKey(provider, kind, query)
}
