// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// podlens reads two things from GitHub (https://api.github.com):
//
//   - [Client.FetchReadme]: the raw README of a repository, requested with
//     "Accept: application/vnd.github.raw" so no base64 decoding is needed
//   - [Client.FetchRepo]: repository metadata (stars, license, topics)
//
// # Usage
//
//	client := github.NewClient(backend, token, 24*time.Hour)
//	text, err := client.FetchReadme(ctx, "Alamofire", "Alamofire", false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // repository has no README
//	}
//
// # Authentication
//
// A personal access token is optional but recommended. Without one the API
// allows 60 requests/hour; with one, 5000. The client also rate limits
// itself (see [DefaultRate]) so a burst of lookups does not exhaust the
// quota in one go.
//
// # Caching
//
// Responses are cached for the TTL given to [NewClient]; authenticated
// and anonymous responses share keys. Pass refresh=true to bypass the cache.
package github
