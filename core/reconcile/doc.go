// Package reconcile rebuilds the local card encyclopedia from a bundled
// dataset and keeps the collection ledger consistent with it.
//
// # Flow
//
// Reconcile compares the stored catalogue schema version with the target:
//
//   - up_to_date: nothing is written.
//   - fresh: the catalogue tables are created and filled.
//   - needs_migration: the catalogue tables are dropped, recreated and filled,
//     then collection entries whose variant disappeared are purged.
//
// Schema changes, the batched upserts (Sets, Cards, Variants, Appearances,
// Pricing, then variant-to-pricing links) and the new version marker share one
// encyclopedia transaction. A failure anywhere rolls all of it back and
// returns ErrReconciliationFailed.
//
// The collection purge is a separate, retryable step expressed as a plan of
// actions (PlanPurge, ApplyPurge). Every non up_to_date run finishes by
// invalidating the statistics cache.
//
// # Sources
//
// Datasets are JSON documents loaded through a Source: FileSource for a local
// file and StorageSource for an object in a MinIO/S3 bucket. Publish and
// ListPublished manage datasets in the bucket.
package reconcile
