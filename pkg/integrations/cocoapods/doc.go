// Package cocoapods fetches pod metadata from the CocoaPods trunk API.
//
// [Client.FetchPod] resolves a pod name to its latest published podspec and
// derives the GitHub repository it is built from, which is where podlens
// reads the README:
//
//	client := cocoapods.NewClient(backend, 24*time.Hour)
//	pod, err := client.FetchPod(ctx, "Alamofire", false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // no such pod on trunk
//	}
//	fmt.Println(pod.Version, pod.RepoOwner, pod.RepoName)
package cocoapods
