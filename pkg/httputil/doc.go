// Package httputil provides retry helpers for registry API clients.
//
// [Retry] re-runs an operation while it fails with a [RetryableError],
// doubling the delay between attempts. Clients wrap transient failures
// (connection errors, 5xx responses, 429 rate limits) in RetryableError
// and return everything else unwrapped so it surfaces immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// A RetryableError may carry a server-requested wait (see
// [ParseRetryAfter]) which replaces the computed backoff for that attempt,
// capped at [MaxRetryAfter].
package httputil
