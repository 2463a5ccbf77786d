package reconcile

import "errors"

var (
	// ErrReconciliationFailed means the encyclopedia rebuild was rolled back and
	// the version marker was left unchanged. Retrying is safe.
	ErrReconciliationFailed = errors.New("reconcile: reconciliation failed")

	// ErrCleanupIncomplete means the rebuild committed but some orphaned
	// collection entries could not be removed. Run PurgeOrphans to finish.
	ErrCleanupIncomplete = errors.New("reconcile: collection cleanup incomplete")
)
