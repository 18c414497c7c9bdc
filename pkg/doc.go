// Package pkg provides the core libraries for modsmith resource installation.
//
// # Overview
//
// Modsmith installs game add-ons (mods, resource packs, texture packs, shader
// packs) from content providers, resolving mod dependencies before anything is
// downloaded. The pkg directory is organized into three main areas:
//
//  1. Domain logic - selection, dependency resolution, review
//  2. Providers - metadata clients for Modrinth and CurseForge
//  3. Infrastructure - caching, retries, errors, observability
//
// # Architecture
//
// The typical data flow through a download session:
//
//	Provider catalogs ([providers], [providers/modrinth], [providers/flame])
//	         ↓
//	    [selection] package (registry of picked packs and versions)
//	         ↓
//	    [depresolve] package (required-dependency closure)
//	         ↓
//	    [review] package (confirmation rows, deselection commit)
//	         ↓
//	    [instance] package (install folders + installed index)
//
// # Main Packages
//
// ## Domain Logic
//
// [mod] - Shared descriptors: packs, versions, dependencies, download tasks.
//
// [selection] - The selection registry: one download task per pack name,
// insertion-ordered, kept in sync with provider page markers.
//
// [depresolve] - Concurrent crawl of the required-dependency closure with
// compatible-version picking and required-by backlinks.
//
// [review] - Review rows for the confirmation step and commit of the user's
// decision back into the registry.
//
// [session] - Orchestrates one download flow: pages, selection, resolution,
// review. Interaction surfaces are injected interfaces.
//
// ## Providers
//
// [providers] - Provider table, the metadata interface, the caching mux, and
// browsable pages.
//
// [providers/modrinth], [providers/flame] - HTTP clients for the Modrinth v2
// and CurseForge v1 APIs.
//
// ## Infrastructure
//
// [cache] - Metadata memoization backends: file, Redis, null.
//
// [httputil] - Response cache and retry with exponential backoff.
//
// [instance] - Game instance folders and the SQLite installed index.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Pluggable hooks for cache, HTTP, and resolution events.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/depresolve/...  # Specific package
//
// [mod]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/mod
// [selection]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/selection
// [depresolve]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/depresolve
// [review]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/review
// [session]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/session
// [providers]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/providers
// [providers/modrinth]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/providers/modrinth
// [providers/flame]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/providers/flame
// [cache]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/httputil
// [instance]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/instance
// [errors]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/errors
// [observability]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/modsmith/modsmith/pkg/buildinfo
package pkg
