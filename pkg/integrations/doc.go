// Package integrations provides HTTP clients for the upstream APIs podlens
// reads from.
//
// Each upstream has its own subpackage:
//
//   - [cocoapods]: CocoaPods trunk, for pod metadata and source locations
//   - [github]: GitHub REST API, for READMEs and repository metadata
//
// # Client Pattern
//
// Clients embed the shared [Client] and follow one shape:
//
//	client := cocoapods.NewClient(backend, 24*time.Hour)
//	pod, err := client.FetchPod(ctx, "Alamofire", false) // false = use cache
//
// The shared [Client] handles:
//   - Response caching through a [cache.Cache] backend with a TTL
//   - Retry with exponential backoff for 5xx and 429 responses
//   - Collapsing concurrent fetches of the same key into one request
//   - Optional client-side rate limiting
//
// Errors wrap [ErrNotFound], [ErrNetwork] or [ErrRateLimited] so callers
// can branch with errors.Is.
//
// [cocoapods]: github.com/matzehuels/podlens/pkg/integrations/cocoapods
// [github]: github.com/matzehuels/podlens/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/podlens/pkg/cache.Cache
package integrations
