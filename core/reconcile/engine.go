package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"holocron/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	insertBatchSize = 100
	idChunkSize     = 500
)

// errAlreadyCurrent aborts a rebuild whose target was reached by a concurrent run.
var errAlreadyCurrent = errors.New("encyclopedia already at target version")

// Invalidator drops every cached statistic. The stats engine implements it.
type Invalidator interface {
	InvalidateAll()
}

// Reconciler rebuilds the encyclopedia from a dataset and keeps the
// collection ledger consistent with it.
type Reconciler struct {
	// mu serialises rebuilds started through this reconciler.
	mu sync.Mutex

	store       *store.Store
	invalidator Invalidator
	logger      *zap.Logger
}

// NewReconciler creates a reconciler. invalidator may be nil.
func NewReconciler(st *store.Store, invalidator Invalidator, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:       st,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Reconcile brings the encyclopedia to target using ds.
//
// A store already at or above target is left untouched. Otherwise the
// catalogue tables are (re)created and filled and the version marker is
// written in one transaction, so either everything commits or nothing does.
// After a migration the collection ledger is purged of entries whose variant
// no longer exists; if that cleanup fails the returned result is still valid
// and the error matches ErrCleanupIncomplete.
func (r *Reconciler) Reconcile(ctx context.Context, ds *Dataset, target int) (*Result, error) {
	started := time.Now()
	if target < 0 {
		return nil, fmt.Errorf("%w: target version %d is negative", store.ErrInvalidArgument, target)
	}

	if err := r.store.Open(ctx); err != nil {
		return nil, err
	}
	enc, err := r.store.Encyclopedia()
	if err != nil {
		return nil, err
	}

	current, err := r.store.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	status := store.Compare(current, target)
	result := &Result{
		Status:          status,
		PreviousVersion: current,
		Version:         current,
	}
	if status == store.StatusUpToDate {
		r.logger.Debug("Encyclopedia up to date", zap.Int("version", current), zap.Int("target", target))
		result.Duration = time.Since(started)
		return result, nil
	}

	if r.invalidator != nil {
		defer r.invalidator.InvalidateAll()
	}

	b, err := prepare(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReconciliationFailed, err)
	}
	result.UnmappedPricing = b.unmapped

	err = r.serialised(func() error {
		return enc.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Another run may have committed since the version was read.
			current, err := store.ReadVersion(tx)
			if err != nil {
				return err
			}
			if store.Compare(current, target) == store.StatusUpToDate {
				result.Status = store.StatusUpToDate
				result.PreviousVersion = current
				result.Version = current
				return errAlreadyCurrent
			}
			status = store.Compare(current, target)
			result.Status = status
			result.PreviousVersion = current

			if status == store.StatusNeedsMigration {
				if err := dropCatalog(tx); err != nil {
					return err
				}
			}
			if err := tx.AutoMigrate(store.CatalogModels()...); err != nil {
				return fmt.Errorf("create catalogue schema: %w", err)
			}

			counts, err := insertDataset(tx, b)
			if err != nil {
				return err
			}
			result.Inserted = counts

			return store.WriteVersion(tx, target)
		})
	})
	if errors.Is(err, errAlreadyCurrent) {
		r.logger.Debug("Encyclopedia rebuilt concurrently", zap.Int("version", result.Version), zap.Int("target", target))
		result.Duration = time.Since(started)
		return result, nil
	}
	if err != nil {
		r.logger.Error("Encyclopedia rebuild rolled back",
			zap.String("status", string(status)),
			zap.Int("target", target),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrReconciliationFailed, err)
	}
	result.Version = target

	r.logger.Info("Encyclopedia rebuilt",
		zap.String("status", string(status)),
		zap.Int("from", result.PreviousVersion),
		zap.Int("to", target),
		zap.Int("sets", result.Inserted.Sets),
		zap.Int("cards", result.Inserted.Cards),
		zap.Int("variants", result.Inserted.Variants),
		zap.Int("unmapped_pricing", result.UnmappedPricing),
	)

	if status == store.StatusNeedsMigration {
		purged, err := r.PurgeOrphans(ctx)
		result.Purged = purged
		if err != nil {
			result.Duration = time.Since(started)
			return result, fmt.Errorf("%w: %w", ErrCleanupIncomplete, err)
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// serialised runs fn while holding the rebuild lock.
func (r *Reconciler) serialised(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

func dropCatalog(tx *gorm.DB) error {
	models := store.CatalogModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := tx.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop catalogue table: %w", err)
		}
	}
	return nil
}

// insertDataset writes b through tx in dependency order.
func insertDataset(tx *gorm.DB, b *batch) (Counts, error) {
	var counts Counts

	if err := upsert(tx, b.sets); err != nil {
		return counts, fmt.Errorf("insert sets: %w", err)
	}
	counts.Sets = len(b.sets)

	if err := upsert(tx, b.cards); err != nil {
		return counts, fmt.Errorf("insert cards: %w", err)
	}
	counts.Cards = len(b.cards)

	if err := upsert(tx, b.variants); err != nil {
		return counts, fmt.Errorf("insert variants: %w", err)
	}
	counts.Variants = len(b.variants)

	if err := upsert(tx, b.appearances); err != nil {
		return counts, fmt.Errorf("insert appearances: %w", err)
	}
	counts.Appearances = len(b.appearances)

	if err := upsert(tx, b.pricing); err != nil {
		return counts, fmt.Errorf("insert pricing: %w", err)
	}
	counts.Pricing = len(b.pricing)

	pricingIDs := make([]string, 0, len(b.links))
	for id := range b.links {
		pricingIDs = append(pricingIDs, id)
	}
	sort.Strings(pricingIDs)

	for _, pricingID := range pricingIDs {
		for _, chunk := range store.Chunk(b.links[pricingID], idChunkSize) {
			res := tx.Model(&store.Variant{}).Where("id IN ?", chunk).Update("pricing_id", pricingID)
			if res.Error != nil {
				return counts, fmt.Errorf("link pricing %s: %w", pricingID, res.Error)
			}
			counts.PricingLinks += int(res.RowsAffected)
		}
	}

	return counts, nil
}

func upsert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&rows, insertBatchSize).Error
}
