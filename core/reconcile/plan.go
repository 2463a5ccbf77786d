package reconcile

import (
	"context"
	"fmt"

	"holocron/core/store"

	"go.uber.org/zap"
)

// PlanPurge lists the collection entries whose variant is missing from the
// encyclopedia. It does not modify anything; use ApplyPurge for that.
//
// Entries are matched on variant existence only. A variant without any set
// appearance is still a valid target for a collection entry.
func (r *Reconciler) PlanPurge(ctx context.Context) (*PurgePlan, error) {
	if err := r.store.Open(ctx); err != nil {
		return nil, err
	}
	enc, err := r.store.Encyclopedia()
	if err != nil {
		return nil, err
	}
	col, err := r.store.Collection()
	if err != nil {
		return nil, err
	}

	if !enc.Migrator().HasTable(&store.Variant{}) {
		return nil, fmt.Errorf("%w: encyclopedia has no catalogue to purge against", store.ErrNotInitialized)
	}

	var variantIDs []string
	if err := enc.WithContext(ctx).Model(&store.Variant{}).Pluck("id", &variantIDs).Error; err != nil {
		return nil, fmt.Errorf("%w: load variant ids: %w", store.ErrQueryFailed, err)
	}
	known := make(map[string]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		known[id] = struct{}{}
	}

	var entries []store.CollectionEntry
	if err := col.WithContext(ctx).Order("variant_id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("%w: load collection: %w", store.ErrQueryFailed, err)
	}

	plan := &PurgePlan{
		Summary: PlanSummary{
			CollectionEntries: len(entries),
			CatalogVariants:   len(variantIDs),
		},
	}
	for _, e := range entries {
		if _, ok := known[e.VariantID]; ok {
			continue
		}
		plan.Actions = append(plan.Actions, Action{
			Type:     ActionDeleteCollectionEntry,
			Key:      e.VariantID,
			Quantity: e.Quantity,
			Reason:   "variant not in encyclopedia",
		})
	}
	plan.Summary.Orphans = len(plan.Actions)

	return plan, nil
}

// ApplyPurge executes the actions in a purge plan in chunks. Each chunk is an
// independent delete, so a partially applied plan can simply be planned and
// applied again. Requires opts.Confirmed=true and opts.DryRun=false to execute.
func (r *Reconciler) ApplyPurge(ctx context.Context, plan *PurgePlan, opts PurgeOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun || plan == nil {
		return 0, nil
	}

	col, err := r.store.Collection()
	if err != nil {
		return 0, err
	}

	var keys []string
	for _, action := range plan.Actions {
		if action.Type == ActionDeleteCollectionEntry {
			keys = append(keys, action.Key)
		}
	}

	defer func() {
		if executed > 0 && r.invalidator != nil {
			r.invalidator.InvalidateAll()
		}
	}()

	for _, chunk := range store.Chunk(keys, idChunkSize) {
		res := col.WithContext(ctx).Where("variant_id IN ?", chunk).Delete(&store.CollectionEntry{})
		if res.Error != nil {
			return executed, fmt.Errorf("delete collection entries: %w", res.Error)
		}
		executed += int(res.RowsAffected)
	}

	if executed > 0 {
		r.logger.Info("Purged orphaned collection entries", zap.Int("count", executed))
	}
	return executed, nil
}

// PurgeOrphans plans and applies a purge in one call.
func (r *Reconciler) PurgeOrphans(ctx context.Context) (int, error) {
	plan, err := r.PlanPurge(ctx)
	if err != nil {
		return 0, err
	}
	return r.ApplyPurge(ctx, plan, PurgeOptions{Confirmed: true})
}
