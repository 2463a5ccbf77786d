package stats

import (
	"context"
	"fmt"

	"holocron/core/store"
)

const ownedChunkSize = 500

// AppearanceRow is one appearance of a card's variant in a set.
type AppearanceRow struct {
	CardID     string
	CardNumber string
	Rarity     *string
	VariantID  string
}

// Source provides the bulk reads the engine folds.
type Source interface {
	// Appearances returns every appearance in the set in one query.
	Appearances(ctx context.Context, setID string) ([]AppearanceRow, error)
	// OwnedVariants returns the subset of variantIDs with quantity > 0.
	OwnedVariants(ctx context.Context, variantIDs []string) (map[string]struct{}, error)
	// SetExists reports whether the set is in the encyclopedia.
	SetExists(ctx context.Context, setID string) (bool, error)
}

// StoreSource reads from the local store.
type StoreSource struct {
	store *store.Store
}

// NewStoreSource creates a Source backed by st.
func NewStoreSource(st *store.Store) *StoreSource {
	return &StoreSource{store: st}
}

// Appearances implements Source.
func (s *StoreSource) Appearances(ctx context.Context, setID string) ([]AppearanceRow, error) {
	enc, err := s.store.Encyclopedia()
	if err != nil {
		return nil, err
	}
	if !enc.Migrator().HasTable(&store.Appearance{}) {
		return nil, fmt.Errorf("%w: catalogue not seeded", store.ErrNotInitialized)
	}

	var rows []AppearanceRow
	err = enc.WithContext(ctx).
		Table("variant_set_appearances AS a").
		Select("v.card_id AS card_id, a.card_number AS card_number, a.rarity AS rarity, a.variant_id AS variant_id").
		Joins("JOIN variants v ON v.id = a.variant_id").
		Where("a.set_id = ?", setID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: set %s appearances: %w", store.ErrQueryFailed, setID, err)
	}
	return rows, nil
}

// OwnedVariants implements Source.
func (s *StoreSource) OwnedVariants(ctx context.Context, variantIDs []string) (map[string]struct{}, error) {
	owned := make(map[string]struct{})
	if len(variantIDs) == 0 {
		return owned, nil
	}

	col, err := s.store.Collection()
	if err != nil {
		return nil, err
	}

	for _, chunk := range store.Chunk(variantIDs, ownedChunkSize) {
		var ids []string
		err := col.WithContext(ctx).
			Model(&store.CollectionEntry{}).
			Where("variant_id IN ? AND quantity > 0", chunk).
			Pluck("variant_id", &ids).Error
		if err != nil {
			return nil, fmt.Errorf("%w: owned variants: %w", store.ErrQueryFailed, err)
		}
		for _, id := range ids {
			owned[id] = struct{}{}
		}
	}
	return owned, nil
}

// SetExists implements Source.
func (s *StoreSource) SetExists(ctx context.Context, setID string) (bool, error) {
	enc, err := s.store.Encyclopedia()
	if err != nil {
		return false, err
	}

	var n int64
	if err := enc.WithContext(ctx).Model(&store.Set{}).Where("id = ?", setID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("%w: set %s: %w", store.ErrQueryFailed, setID, err)
	}
	return n > 0, nil
}
