// Package store is the versioned schema store.
//
// It owns two independently openable SQLite databases:
//
//   - Encyclopedia: sets, cards, variants, set appearances and pricing, plus a
//     metadata row holding the catalogue schema version.
//   - Collection: the sparse ledger of owned quantities keyed by variant id.
//
// Open is idempotent and single-flight; concurrent callers converge on one
// connect-and-bootstrap sequence. Status compares the stored version with the
// version of the bundled dataset and tells the reconciler whether to build the
// catalogue from scratch, rebuild it, or leave it alone.
//
// # Usage
//
//	st := store.New(cfg.Store, log)
//	if err := st.Open(ctx); err != nil {
//	    return err // wraps store.ErrStorageUnavailable
//	}
//	status, err := st.Status(ctx, dataset.Version)
package store
