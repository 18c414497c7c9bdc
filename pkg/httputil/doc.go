// Package httputil provides HTTP utilities for content provider clients.
//
// # Overview
//
// This package provides infrastructure used by all provider API clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/modsmith/)
// with configurable TTL. This dramatically speeds up repeated operations
// and reduces load on content providers.
//
// Usage:
//
//	cache, err := httputil.NewCache(dir, 24*time.Hour)
//	ok, err := cache.Get("modrinth:sodium", &project)  // Check cache
//	if !ok {
//	    project = fetchFromAPI()
//	    cache.Set("modrinth:sodium", project)          // Store for later
//	}
//
// Cache keys should be namespaced by provider to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried; the delay doubles
// after each failed attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchVersions(ctx, projectID)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/modsmith/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `modsmith cache clear` or by deleting
// the cache directory.
package httputil
