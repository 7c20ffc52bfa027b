// Package pkg holds the podlens libraries.
//
// # Overview
//
// podlens turns the README of a CocoaPods library into structured usage
// examples and installation snippets. The packages are layered:
//
//	CocoaPods trunk / GitHub API
//	         ↓
//	    [integrations] (cached, retried, rate-limited HTTP clients)
//	         ↓
//	    [readme] (section scan → fence extraction → relevance → dedupe)
//	         ↓
//	    [pods] (Service: lookups, result cache, response shaping)
//	         ↓
//	    CLI (internal/cli) and HTTP API (internal/server)
//
// # Main Packages
//
// [readme] - Pure functions that extract [readme.UsageExample] values and
// [readme.InstallationInstructions] from Markdown. Rules are data tables.
//
// [ttlcache] - Generic in-memory cache with per-entry TTL, FIFO eviction at
// capacity and a background sweeper. Used for parsed results and as the
// memory HTTP cache backend.
//
// [cache] - Byte cache interface for upstream HTTP responses with file,
// memory, Redis and MongoDB backends.
//
// [integrations] - Shared HTTP client plus the [integrations/cocoapods] and
// [integrations/github] registry clients.
//
// [pods] - The service that ties clients, parser and result cache together.
//
// [errors] - Coded errors, HTTP status mapping and input validation.
//
// [observability] - Hook interfaces with no-op defaults and a Prometheus
// implementation.
//
// [httputil] - Retry with exponential backoff and Retry-After support.
//
// # Quick Start
//
// Parse a README without any network access:
//
//	examples := readme.ParseUsageExamples(text)
//	install := readme.ExtractInstallationInstructions(readme.CleanContent(text))
//
// Look up a pod:
//
//	backend, _ := cache.NewFileCache(dir)
//	svc, _ := pods.NewService(pods.Options{
//	    CocoaPods: cocoapods.NewClient(backend, 24*time.Hour),
//	    GitHub:    github.NewClient(backend, token, 24*time.Hour),
//	})
//	defer svc.Close()
//	res, err := svc.LookupPod(ctx, "Alamofire", pods.Request{})
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -tags integration ./pkg/...  # Include live GitHub tests
//
// [readme]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/readme
// [readme.UsageExample]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/readme#UsageExample
// [readme.InstallationInstructions]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/readme#InstallationInstructions
// [ttlcache]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/ttlcache
// [cache]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/cache
// [integrations]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/integrations
// [integrations/cocoapods]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/integrations/cocoapods
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/integrations/github
// [pods]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/pods
// [errors]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/podlens/pkg/httputil
package pkg
