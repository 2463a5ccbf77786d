package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"holocron/core/cache"
	"holocron/core/store"
	"holocron/core/utils"

	"go.uber.org/zap"
)

// Rarity buckets.
const (
	BucketCommon   = "common"
	BucketUncommon = "uncommon"
	BucketRare     = "rare"
	BucketOther    = "other"
)

// Count is an owned/total pair over unique cards.
type Count struct {
	Owned int `json:"owned"`
	Total int `json:"total"`
}

// SetStats is the completion breakdown of one set.
type SetStats struct {
	SetID      string    `json:"setId"`
	Total      Count     `json:"total"`
	Common     Count     `json:"common"`
	Uncommon   Count     `json:"uncommon"`
	Rare       Count     `json:"rare"`
	Other      Count     `json:"other"`
	ComputedAt time.Time `json:"computedAt"`
}

// Engine computes and caches per-set statistics.
type Engine struct {
	source Source
	cache  *cache.Cache[SetStats]
	logger *zap.Logger
}

// NewEngine creates an engine caching results for ttl.
func NewEngine(source Source, ttl time.Duration, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source: source,
		cache:  cache.New[SetStats](ttl),
		logger: logger,
	}
}

// SetStats returns the statistics of setID, from cache when fresh.
// Concurrent misses for the same set share one computation.
func (e *Engine) SetStats(ctx context.Context, setID string) (SetStats, error) {
	return e.cache.GetOrCompute(ctx, setID, func(ctx context.Context) (SetStats, error) {
		return e.compute(ctx, setID)
	})
}

// Invalidate drops the cached statistics of the given sets.
func (e *Engine) Invalidate(setIDs ...string) {
	e.cache.Invalidate(setIDs...)
}

// InvalidateAll drops every cached statistic.
func (e *Engine) InvalidateAll() {
	e.cache.InvalidateAll()
}

func (e *Engine) compute(ctx context.Context, setID string) (SetStats, error) {
	rows, err := e.source.Appearances(ctx, setID)
	if err != nil {
		return SetStats{}, err
	}
	if len(rows) == 0 {
		exists, err := e.source.SetExists(ctx, setID)
		if err != nil {
			return SetStats{}, err
		}
		if !exists {
			return SetStats{}, fmt.Errorf("%w: set %s", store.ErrNotFound, setID)
		}
	}

	variantIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		variantIDs = append(variantIDs, r.VariantID)
	}
	owned, err := e.source.OwnedVariants(ctx, variantIDs)
	if err != nil {
		return SetStats{}, err
	}

	stats := Fold(setID, rows, owned)
	stats.ComputedAt = time.Now()

	e.logger.Debug("Computed set stats",
		zap.String("set_id", setID),
		zap.Int("cards", stats.Total.Total),
		zap.Int("owned", stats.Total.Owned),
	)
	return stats, nil
}

// Fold counts unique cards per rarity bucket. A card's bucket comes from its
// representative appearance (lowest card number, then rarity). A card is
// owned when any of its variants in the set is owned.
func Fold(setID string, rows []AppearanceRow, owned map[string]struct{}) SetStats {
	type card struct {
		rep   AppearanceRow
		owned bool
	}

	cards := make(map[string]*card)
	for _, r := range rows {
		_, isOwned := owned[r.VariantID]
		c, ok := cards[r.CardID]
		if !ok {
			cards[r.CardID] = &card{rep: r, owned: isOwned}
			continue
		}
		if utils.CompareAppearances(r.CardNumber, r.Rarity, c.rep.CardNumber, c.rep.Rarity) < 0 {
			c.rep = r
		}
		c.owned = c.owned || isOwned
	}

	stats := SetStats{SetID: setID}
	for _, c := range cards {
		var bucket *Count
		switch RarityBucket(c.rep.Rarity) {
		case BucketCommon:
			bucket = &stats.Common
		case BucketUncommon:
			bucket = &stats.Uncommon
		case BucketRare:
			bucket = &stats.Rare
		default:
			bucket = &stats.Other
		}

		bucket.Total++
		stats.Total.Total++
		if c.owned {
			bucket.Owned++
			stats.Total.Owned++
		}
	}
	return stats
}

// RarityBucket classifies a rarity code by its first letter, ignoring case.
func RarityBucket(rarity *string) string {
	if rarity == nil {
		return BucketOther
	}
	code := strings.TrimSpace(*rarity)
	if code == "" {
		return BucketOther
	}
	switch strings.ToUpper(code[:1]) {
	case "C":
		return BucketCommon
	case "U":
		return BucketUncommon
	case "R":
		return BucketRare
	default:
		return BucketOther
	}
}
