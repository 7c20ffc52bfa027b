package ttlcache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultTTL           = 5 * time.Minute
	DefaultMaxSize       = 1000
	DefaultSweepInterval = time.Minute
)

// ErrInvalidConfig is returned by [New] for negative sizes or durations.
var ErrInvalidConfig = errors.New("ttlcache: invalid config")

// Reason describes why an entry left the cache without an explicit delete.
type Reason int

const (
	// Expired entries outlived their TTL.
	Expired Reason = iota
	// Evicted entries were removed to make room for a new key.
	Evicted
)

func (r Reason) String() string {
	switch r {
	case Expired:
		return "expired"
	case Evicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Config controls cache capacity and expiry.
type Config struct {
	TTL           time.Duration // Default entry lifetime (0 = DefaultTTL)
	MaxSize       int           // Maximum number of entries (0 = DefaultMaxSize)
	SweepInterval time.Duration // Background sweep period (0 = DefaultSweepInterval)

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// OnRemove is called after an entry expires or is evicted. It runs
	// outside the cache lock and may call back into the cache.
	OnRemove func(key string, reason Reason)
}

func (cfg Config) withDefaults() (Config, error) {
	if cfg.TTL < 0 || cfg.MaxSize < 0 || cfg.SweepInterval < 0 {
		return cfg, ErrInvalidConfig
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return cfg, nil
}

// Stats are cumulative counters since the cache was created.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

type entry[T any] struct {
	value     T
	createdAt time.Time
	ttl       time.Duration
	seq       uint64 // insertion order, breaks createdAt ties
}

func (e *entry[T]) expired(now time.Time) bool {
	return now.After(e.createdAt.Add(e.ttl))
}

type removal struct {
	key    string
	reason Reason
}

// Cache is a size-bounded map of string keys to values of type T whose
// entries expire after a TTL.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	seq     uint64
	stats   Stats

	ttl      time.Duration
	maxSize  int
	now      func() time.Time
	onRemove func(string, Reason)

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New creates a cache and starts its sweep goroutine. Zero Config fields
// take the package defaults; negative values return [ErrInvalidConfig].
func New[T any](cfg Config) (*Cache[T], error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[T]{
		entries:  make(map[string]*entry[T]),
		ttl:      cfg.TTL,
		maxSize:  cfg.MaxSize,
		now:      cfg.Clock,
		onRemove: cfg.OnRemove,
		cancel:   cancel,
	}

	c.wg.Add(1)
	go c.sweepLoop(ctx, cfg.SweepInterval)
	return c, nil
}

// TTL returns the default entry lifetime.
func (c *Cache[T]) TTL() time.Duration { return c.ttl }

// MaxSize returns the entry bound.
func (c *Cache[T]) MaxSize() int { return c.maxSize }

// Set stores value under key with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A ttl <= 0 uses the default TTL.
//
// Adding a new key to a full cache first evicts the entry with the oldest
// creation time. Overwriting an existing key resets its creation time.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	now := c.now()
	var removed []removal
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.createdAt = now
		e.ttl = ttl
	} else {
		for len(c.entries) >= c.maxSize {
			k, ok := c.oldestLocked()
			if !ok {
				break
			}
			delete(c.entries, k)
			c.stats.Evictions++
			removed = append(removed, removal{k, Evicted})
		}
		c.seq++
		c.entries[key] = &entry[T]{value: value, createdAt: now, ttl: ttl, seq: c.seq}
	}
	c.mu.Unlock()

	c.notify(removed)
}

// Get returns the value stored under key. Expired entries are deleted and
// reported as missing. Get does not extend an entry's lifetime.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		c.stats.Misses++
		c.stats.Expirations++
		c.mu.Unlock()
		c.notify([]removal{{key, Expired}})
		return zero, false
	}
	c.stats.Hits++
	v := e.value
	c.mu.Unlock()
	return v, true
}

// Has reports whether key holds an unexpired entry, deleting it if expired.
func (c *Cache[T]) Has(key string) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		c.stats.Expirations++
		c.mu.Unlock()
		c.notify([]removal{{key, Expired}})
		return false
	}
	c.mu.Unlock()
	return true
}

// Delete removes key and reports whether it was present.
func (c *Cache[T]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[T])
}

// Len returns the number of stored entries, including expired entries that
// have not been removed yet.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the stored keys in insertion order.
func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	type keyed struct {
		key string
		seq uint64
	}
	all := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, keyed{k, e.seq})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	keys := make([]string, len(all))
	for i, k := range all {
		keys[i] = k.key
	}
	return keys
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Sweep deletes every expired entry and returns how many were removed.
func (c *Cache[T]) Sweep() int {
	c.mu.Lock()
	now := c.now()
	var removed []removal
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			removed = append(removed, removal{k, Expired})
		}
	}
	c.stats.Expirations += uint64(len(removed))
	c.mu.Unlock()

	c.notify(removed)
	return len(removed)
}

// Close stops the sweep goroutine and removes every entry. Calls after the
// first are no-ops.
func (c *Cache[T]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.Clear()
	return nil
}

func (c *Cache[T]) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// oldestLocked returns the key with the smallest creation time, ties going
// to the earliest insertion.
func (c *Cache[T]) oldestLocked() (string, bool) {
	var (
		oldest string
		best   *entry[T]
	)
	for k, e := range c.entries {
		if best == nil || e.createdAt.Before(best.createdAt) ||
			(e.createdAt.Equal(best.createdAt) && e.seq < best.seq) {
			oldest, best = k, e
		}
	}
	return oldest, best != nil
}

func (c *Cache[T]) notify(removed []removal) {
	if c.onRemove == nil {
		return
	}
	for _, r := range removed {
		c.onRemove(r.key, r.reason)
	}
}
