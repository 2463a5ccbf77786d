package reconcile

import (
	"time"

	"holocron/core/store"
)

// Counts tallies rows written to the encyclopedia by one rebuild.
type Counts struct {
	Sets         int `json:"sets"`
	Cards        int `json:"cards"`
	Variants     int `json:"variants"`
	Appearances  int `json:"appearances"`
	Pricing      int `json:"pricing"`
	PricingLinks int `json:"pricing_links"`
}

// Result describes what a reconciliation did.
type Result struct {
	// Status is the state detected before the run. StatusUpToDate means nothing
	// was written.
	Status store.Status `json:"status"`

	// PreviousVersion is the stored version before the run, or store.NoVersion.
	PreviousVersion int `json:"previous_version"`

	// Version is the stored version after the run.
	Version int `json:"version"`

	// Inserted counts the catalogue rows written.
	Inserted Counts `json:"inserted"`

	// Purged is the number of orphaned collection entries removed.
	Purged int `json:"purged"`

	// UnmappedPricing counts pricing mappings whose variant or external product
	// was not part of the dataset.
	UnmappedPricing int `json:"unmapped_pricing"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// ActionType defines the type of action to take during purge.
type ActionType string

const (
	// ActionDeleteCollectionEntry removes a ledger row whose variant no longer exists.
	ActionDeleteCollectionEntry ActionType = "delete_collection_entry"
)

// Action represents a single planned action.
type Action struct {
	// Type is the action type.
	Type ActionType `json:"type"`

	// Key is the variant id of the collection entry.
	Key string `json:"key"`

	// Quantity is the owned quantity that the action discards.
	Quantity int `json:"quantity"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// PlanSummary provides aggregate counts for a purge plan.
type PlanSummary struct {
	// CollectionEntries is the number of ledger rows inspected.
	CollectionEntries int `json:"collection_entries"`

	// CatalogVariants is the number of variants in the encyclopedia.
	CatalogVariants int `json:"catalog_variants"`

	// Orphans is the number of ledger rows referencing missing variants.
	Orphans int `json:"orphans"`
}

// PurgePlan contains planned collection cleanup actions.
type PurgePlan struct {
	// Actions is the list of planned actions.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PurgeOptions configures purge execution.
type PurgeOptions struct {
	// DryRun if true, only plans actions without executing.
	DryRun bool

	// Confirmed must be true to actually execute actions.
	Confirmed bool
}
