package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"holocron/core/store"
	"holocron/core/utils"

	"go.uber.org/zap"
)

type nameMatch struct {
	name  string
	exact bool
}

// SearchCardsByName finds card names containing query, ignoring case,
// apostrophe and dash glyph differences. Names whose punctuation-stripped form
// matches are returned after the exact ones; each group is alphabetical.
//
// Search never fails: a name whose variants cannot be loaded is dropped and a
// failing name lookup yields an empty result. Both are logged.
func (s *Service) SearchCardsByName(ctx context.Context, query string) []SearchResult {
	results := []SearchResult{}

	folded := utils.FoldName(query)
	fuzzy := utils.FuzzyName(query)
	if folded == "" {
		return results
	}

	db, err := s.catalogue(ctx)
	if err != nil {
		s.logger.Warn("Card search unavailable", zap.String("query", query), zap.Error(err))
		return results
	}

	var names []string
	if err := db.Model(&store.Card{}).Distinct().Pluck("name", &names).Error; err != nil {
		s.logger.Error("Card name lookup failed", zap.String("query", query), zap.Error(err))
		return results
	}

	var matches []nameMatch
	for _, name := range names {
		switch {
		case strings.Contains(utils.FoldName(name), folded):
			matches = append(matches, nameMatch{name: name, exact: true})
		case fuzzy != "" && strings.Contains(utils.FuzzyName(name), fuzzy):
			matches = append(matches, nameMatch{name: name})
		}
	}
	slices.SortFunc(matches, func(a, b nameMatch) int {
		if a.exact != b.exact {
			if a.exact {
				return -1
			}
			return 1
		}
		if c := strings.Compare(utils.FoldName(a.name), utils.FoldName(b.name)); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	for _, m := range matches {
		variants, err := s.variantsNamed(ctx, m.name)
		if err != nil {
			s.logger.Warn("Dropping search result", zap.String("name", m.name), zap.Error(err))
			continue
		}
		if len(variants) == 0 {
			continue
		}

		match := MatchFuzzy
		if m.exact {
			match = MatchExact
		}
		results = append(results, SearchResult{Name: m.name, Match: match, Variants: variants})
	}
	return results
}

type nameRow struct {
	store.Variant `gorm:"embedded"`
	Side          string
}

type appearanceRow struct {
	VariantID   string
	SetID       string
	SetName     string
	ReleaseDate *string
	CardNumber  string
	Rarity      *string
}

// variantsNamed loads every variant of every card called name, across all
// sets, with its earliest appearance, quantity and pricing. Variants that
// appear in no set are left out.
func (s *Service) variantsNamed(ctx context.Context, name string) ([]SearchVariant, error) {
	db, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	var rows []nameRow
	err = db.Table("variants AS v").
		Select("v.*, c.side AS side").
		Joins("JOIN cards c ON c.id = v.card_id").
		Where("c.name = ?", name).
		Order("v.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("variants of %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	var appearances []appearanceRow
	err = db.Table("variant_set_appearances AS a").
		Select("a.variant_id AS variant_id, a.set_id AS set_id, s.name AS set_name, s.release_date AS release_date, a.card_number AS card_number, a.rarity AS rarity").
		Joins("JOIN sets s ON s.id = a.set_id").
		Where("a.variant_id IN ?", ids).
		Scan(&appearances).Error
	if err != nil {
		return nil, fmt.Errorf("appearances of %q: %w", name, err)
	}

	earliest := make(map[string]appearanceRow, len(appearances))
	for _, a := range appearances {
		cur, ok := earliest[a.VariantID]
		if !ok || releasedBefore(a, cur) {
			earliest[a.VariantID] = a
		}
	}

	pricing, err := s.PricingForVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	quantities, err := s.ledger.Quantities(ctx, ids)
	if err != nil {
		return nil, err
	}

	variants := make([]SearchVariant, 0, len(rows))
	for _, r := range rows {
		a, ok := earliest[r.ID]
		if !ok {
			continue
		}

		v := SearchVariant{
			Variant: r.Variant,
			Side:    r.Side,
			Appearance: SetAppearance{
				SetID:       a.SetID,
				SetName:     a.SetName,
				ReleaseDate: a.ReleaseDate,
				CardNumber:  a.CardNumber,
				Rarity:      a.Rarity,
			},
			Quantity: quantities[r.ID],
		}
		if p, ok := pricing[r.ID]; ok {
			v.Pricing = &p
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// releasedBefore orders appearances by release date with undated sets last,
// then by set id.
func releasedBefore(a, b appearanceRow) bool {
	switch {
	case a.ReleaseDate == nil && b.ReleaseDate == nil:
		return a.SetID < b.SetID
	case a.ReleaseDate == nil:
		return false
	case b.ReleaseDate == nil:
		return true
	case *a.ReleaseDate != *b.ReleaseDate:
		return *a.ReleaseDate < *b.ReleaseDate
	default:
		return a.SetID < b.SetID
	}
}
