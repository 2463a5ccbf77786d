// Package stats is the completion statistics engine.
//
// For a set it counts unique cards per rarity bucket (common, uncommon, rare,
// other) and how many of them the collection owns. Computation is two bulk
// reads, one for the set's appearances and one for the owned subset of their
// variants, followed by an in-memory fold.
//
// Results are cached per set id with a TTL (30 seconds by default). Concurrent
// misses for the same set share one computation, and Invalidate/InvalidateAll
// guarantee that the next read recomputes even if a computation was in flight
// when the invalidation happened. The collection feature invalidates affected
// sets on every quantity change; the reconciler invalidates everything after a
// rebuild.
package stats
