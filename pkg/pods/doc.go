// Package pods looks up pods and repositories and turns their READMEs into
// usage examples and installation snippets.
//
// This is the layer shared by the CLI and the HTTP API. A [Service] resolves
// a pod on CocoaPods trunk, follows it to its GitHub repository, fetches
// the README and runs the [readme] parser over it:
//
//	svc, err := pods.NewService(pods.Options{
//	    CocoaPods: cocoapods.NewClient(backend, 24*time.Hour),
//	    GitHub:    github.NewClient(backend, token, 24*time.Hour),
//	    Logger:    logger,
//	})
//	defer svc.Close()
//
//	res, err := svc.LookupPod(ctx, "Alamofire", pods.Request{})
//	for _, ex := range res.Limit(3).Examples {
//	    fmt.Println(ex.Title, ex.Language)
//	}
//
// Assembled results are kept in a [ttlcache.Cache] keyed by "pod:<name>"
// or "repo:<owner>/<repo>", in front of the byte-level response cache the
// registry clients use.
//
// Errors carry codes from [errors]: INVALID_PACKAGE and INVALID_REPO for bad
// input, PACKAGE_NOT_FOUND, NOT_FOUND and README_NOT_FOUND for missing
// resources, NETWORK_ERROR, TIMEOUT and RATE_LIMITED for upstream trouble.
//
// [readme]: github.com/matzehuels/podlens/pkg/readme
// [ttlcache.Cache]: github.com/matzehuels/podlens/pkg/ttlcache.Cache
// [errors]: github.com/matzehuels/podlens/pkg/errors
package pods
