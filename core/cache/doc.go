// Package cache provides a generic in-memory TTL cache keyed by string.
//
// Concurrent misses for one key share a single computation through
// singleflight. Invalidation bumps a per-key generation (or a global epoch for
// InvalidateAll) and forgets the in-flight call, so a computation that read
// state before a write can never repopulate the cache after that write.
package cache
