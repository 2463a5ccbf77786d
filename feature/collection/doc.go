// Package collection manages the user's ledger of owned quantities.
//
// The ledger is sparse: a variant with quantity zero has no row. SetQuantity
// is the single mutation entry point; it rejects negative quantities and
// unknown variants without side effects, and invalidates the statistics of
// every set containing the variant before returning, so the caller's next
// statistics read reflects the change.
package collection
