package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"holocron/core/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lookupChunkSize = 500

// Invalidator drops cached set statistics. The stats engine implements it.
type Invalidator interface {
	Invalidate(setIDs ...string)
	InvalidateAll()
}

// Service owns the collection ledger. SetQuantity is the only write path.
type Service struct {
	store       *store.Store
	invalidator Invalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a collection service. invalidator may be nil.
func NewService(st *store.Store, invalidator Invalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:       st,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// SetQuantity records that quantity copies of variantID are owned. Zero
// removes the entry. The statistics of every set the variant appears in are
// invalidated before it returns.
func (s *Service) SetQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", store.ErrInvalidArgument, quantity)
	}
	if variantID == "" {
		return fmt.Errorf("%w: empty variant id", store.ErrInvalidArgument)
	}

	enc, err := s.store.Encyclopedia()
	if err != nil {
		return err
	}
	col, err := s.store.Collection()
	if err != nil {
		return err
	}
	if !enc.Migrator().HasTable(&store.Variant{}) {
		return fmt.Errorf("%w: catalogue not seeded", store.ErrNotInitialized)
	}

	var n int64
	if err := enc.WithContext(ctx).Model(&store.Variant{}).Where("id = ?", variantID).Count(&n).Error; err != nil {
		return fmt.Errorf("%w: variant %s: %w", store.ErrQueryFailed, variantID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: unknown variant %s", store.ErrInvalidArgument, variantID)
	}

	var setIDs []string
	setErr := enc.WithContext(ctx).
		Model(&store.Appearance{}).
		Where("variant_id = ?", variantID).
		Distinct().
		Pluck("set_id", &setIDs).Error

	if quantity == 0 {
		err = col.WithContext(ctx).Where("variant_id = ?", variantID).Delete(&store.CollectionEntry{}).Error
	} else {
		entry := store.CollectionEntry{VariantID: variantID, Quantity: quantity, UpdatedAt: s.now()}
		err = col.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
	}
	if err != nil {
		return fmt.Errorf("set quantity of %s: %w", variantID, err)
	}

	if s.invalidator != nil {
		if setErr != nil {
			s.logger.Warn("Set lookup failed, invalidating all statistics", zap.String("variant_id", variantID), zap.Error(setErr))
			s.invalidator.InvalidateAll()
		} else {
			s.invalidator.Invalidate(setIDs...)
		}
	}

	s.logger.Debug("Quantity set",
		zap.String("variant_id", variantID),
		zap.Int("quantity", quantity),
		zap.Strings("sets", setIDs),
	)
	return nil
}

// Entry returns the ledger row of variantID, or nil when none exists.
func (s *Service) Entry(ctx context.Context, variantID string) (*store.CollectionEntry, error) {
	col, err := s.store.Collection()
	if err != nil {
		return nil, err
	}

	var entry store.CollectionEntry
	err = col.WithContext(ctx).Where("variant_id = ?", variantID).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: collection entry %s: %w", store.ErrQueryFailed, variantID, err)
	}
	return &entry, nil
}

// Quantity returns the owned quantity of variantID; absence means zero.
func (s *Service) Quantity(ctx context.Context, variantID string) (int, error) {
	entry, err := s.Entry(ctx, variantID)
	if err != nil || entry == nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// Quantities returns the owned quantities of the given variants in bulk.
// Variants that are not owned are absent from the map.
func (s *Service) Quantities(ctx context.Context, variantIDs []string) (map[string]int, error) {
	out := make(map[string]int)
	if len(variantIDs) == 0 {
		return out, nil
	}

	col, err := s.store.Collection()
	if err != nil {
		return nil, err
	}

	for _, chunk := range store.Chunk(variantIDs, lookupChunkSize) {
		var entries []store.CollectionEntry
		if err := col.WithContext(ctx).Where("variant_id IN ?", chunk).Find(&entries).Error; err != nil {
			return nil, fmt.Errorf("%w: quantities: %w", store.ErrQueryFailed, err)
		}
		for _, e := range entries {
			out[e.VariantID] = e.Quantity
		}
	}
	return out, nil
}

// Entries returns the whole ledger ordered by variant id.
func (s *Service) Entries(ctx context.Context) ([]store.CollectionEntry, error) {
	col, err := s.store.Collection()
	if err != nil {
		return nil, err
	}

	entries := []store.CollectionEntry{}
	if err := col.WithContext(ctx).Order("variant_id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("%w: collection: %w", store.ErrQueryFailed, err)
	}
	return entries, nil
}
