// Package ttlcache provides a generic in-memory cache with per-entry
// time-to-live, a size bound and a background sweep.
//
// # Usage
//
//	c, err := ttlcache.New[*pods.Result](ttlcache.Config{
//	    TTL:     10 * time.Minute,
//	    MaxSize: 500,
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	c.Set("pod:Alamofire", result)
//	if r, ok := c.Get("pod:Alamofire"); ok {
//	    // fresh hit
//	}
//
// # Expiry
//
// An entry expires once the clock passes its creation time plus its TTL.
// Expired entries are removed lazily by [Cache.Get] and [Cache.Has], and
// periodically by the sweep goroutine started in [New]. [Cache.Sweep] runs
// one pass synchronously.
//
// # Eviction
//
// When a new key is added to a full cache, the entry with the oldest creation
// time is evicted. Reads never refresh an entry's creation time, so eviction
// order is first-in first-out, not least-recently-used.
//
// # Lifecycle
//
// [New] starts the sweep goroutine; [Cache.Close] stops it and drops every
// entry. Close is safe to call more than once.
//
// All methods are safe for concurrent use.
package ttlcache
