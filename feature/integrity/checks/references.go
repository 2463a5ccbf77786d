package checks

import (
	"context"
	"fmt"

	"holocron/core/store"

	"gorm.io/gorm"
)

// ReferenceReport counts rows that break a cross-table reference.
type ReferenceReport struct {
	VariantsWithoutCard       int64 `json:"variants_without_card"`
	AppearancesWithoutSet     int64 `json:"appearances_without_set"`
	AppearancesWithoutVariant int64 `json:"appearances_without_variant"`
	// VariantsWithoutAppearance are kept in the catalogue but cannot be shown
	// in any set view. They do not make the report unhealthy.
	VariantsWithoutAppearance int64 `json:"variants_without_appearance"`
	NonPositiveEntries        int64 `json:"non_positive_entries"`
	EntriesWithoutVariant     int64 `json:"entries_without_variant"`
}

// Broken reports whether any hard reference is violated.
func (r *ReferenceReport) Broken() bool {
	return r.VariantsWithoutCard > 0 ||
		r.AppearancesWithoutSet > 0 ||
		r.AppearancesWithoutVariant > 0 ||
		r.NonPositiveEntries > 0 ||
		r.EntriesWithoutVariant > 0
}

const idChunkSize = 500

// CheckReferences counts dangling references inside the encyclopedia and
// between the collection ledger and the encyclopedia. The catalogue tables
// must exist.
func CheckReferences(ctx context.Context, enc, col *gorm.DB) (*ReferenceReport, error) {
	enc = enc.WithContext(ctx)
	col = col.WithContext(ctx)
	report := &ReferenceReport{}

	counts := []struct {
		name  string
		dst   *int64
		query *gorm.DB
	}{
		{"variants without card", &report.VariantsWithoutCard,
			enc.Table("variants AS v").Joins("LEFT JOIN cards c ON c.id = v.card_id").Where("c.id IS NULL")},
		{"appearances without set", &report.AppearancesWithoutSet,
			enc.Table("variant_set_appearances AS a").Joins("LEFT JOIN sets s ON s.id = a.set_id").Where("s.id IS NULL")},
		{"appearances without variant", &report.AppearancesWithoutVariant,
			enc.Table("variant_set_appearances AS a").Joins("LEFT JOIN variants v ON v.id = a.variant_id").Where("v.id IS NULL")},
		{"variants without appearance", &report.VariantsWithoutAppearance,
			enc.Table("variants AS v").Joins("LEFT JOIN variant_set_appearances a ON a.variant_id = v.id").Where("a.variant_id IS NULL")},
		{"non-positive entries", &report.NonPositiveEntries,
			col.Model(&store.CollectionEntry{}).Where("quantity <= 0")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}

	var ids []string
	if err := col.Model(&store.CollectionEntry{}).Pluck("variant_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list collection entries: %w", err)
	}
	for _, chunk := range store.Chunk(ids, idChunkSize) {
		var found int64
		if err := enc.Model(&store.Variant{}).Where("id IN ?", chunk).Count(&found).Error; err != nil {
			return nil, fmt.Errorf("resolve collection variants: %w", err)
		}
		report.EntriesWithoutVariant += int64(len(chunk)) - found
	}

	return report, nil
}
