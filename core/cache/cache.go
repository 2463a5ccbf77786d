package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a keyed TTL cache with stampede protection and race-safe
// invalidation. Values computed by a flight that started before an
// invalidation of its key are returned to that flight's callers but are never
// stored.
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entries  map[string]entry[V]
	gens     map[string]uint64
	epoch    uint64
	inflight map[string]int

	sf singleflight.Group
}

type entry[V any] struct {
	value V
	built time.Time
}

// token identifies the invalidation state a flight started under.
type token struct {
	epoch uint64
	gen   uint64
}

// New creates a cache whose entries live for ttl. A zero ttl disables storage
// but keeps concurrent computations for the same key coalesced.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]entry[V]),
		gens:     make(map[string]uint64),
		inflight: make(map[string]int),
	}
}

// TTL returns the configured time-to-live.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns a fresh cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key)
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.built) >= c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// GetOrCompute returns the cached value for key or runs compute once for all
// concurrent callers of the same key. Failures are never cached.
//
// compute receives a context detached from the caller's cancellation so a
// cancelled first caller does not fail the other callers sharing its flight.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		c.mu.Lock()
		if v, ok := c.lookup(key); ok {
			c.mu.Unlock()
			return v, nil
		}
		started := c.tokenLocked(key)
		c.inflight[key]++
		c.mu.Unlock()

		v, err := compute(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.inflight[key]--; c.inflight[key] <= 0 {
			delete(c.inflight, key)
		}
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 && c.tokenLocked(key) == started {
			c.entries[key] = entry[V]{value: v, built: c.now()}
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	v, _ := result.(V)
	return v, nil
}

// Invalidate drops the given keys and detaches any flight computing them, so
// the next read recomputes.
func (c *Cache[V]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
		c.sf.Forget(key)
	}
}

// InvalidateAll drops every entry and detaches every in-flight computation.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.epoch++
	for key := range c.inflight {
		c.sf.Forget(key)
	}
}

func (c *Cache[V]) tokenLocked(key string) token {
	return token{epoch: c.epoch, gen: c.gens[key]}
}
