package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"holocron/core/store"
	"holocron/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idChunkSize = 500

// Ledger reads owned quantities. The collection service implements it.
type Ledger interface {
	Quantities(ctx context.Context, variantIDs []string) (map[string]int, error)
}

// Service answers read-only catalogue queries joined with the ledger.
type Service struct {
	store  *store.Store
	ledger Ledger
	logger *zap.Logger
}

// NewService creates a catalogue service.
func NewService(st *store.Store, ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, ledger: ledger, logger: logger}
}

// catalogue returns the encyclopedia handle once the catalogue exists.
func (s *Service) catalogue(ctx context.Context) (*gorm.DB, error) {
	enc, err := s.store.Encyclopedia()
	if err != nil {
		return nil, err
	}
	if !enc.Migrator().HasTable(&store.Set{}) {
		return nil, fmt.Errorf("%w: catalogue not seeded", store.ErrNotInitialized)
	}
	return enc.WithContext(ctx), nil
}

// ListSets returns every set by release date (undated first), then name.
func (s *Service) ListSets(ctx context.Context) ([]store.Set, error) {
	db, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	sets := []store.Set{}
	err = db.Order("release_date IS NOT NULL").Order("release_date").Order("name").Find(&sets).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list sets: %w", store.ErrQueryFailed, err)
	}
	return sets, nil
}

type setRow struct {
	store.Variant `gorm:"embedded"`
	CardName      string
	CardSide      string
	CardType      string
	CardIcon      *string
	CardNumber    string
	Rarity        *string
}

// CardsInSet returns the cards of setID ordered by card number, numeric
// numbers first. Each card carries only its variants in this set.
func (s *Service) CardsInSet(ctx context.Context, setID string) ([]CardInSet, error) {
	db, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	var n int64
	if err := db.Model(&store.Set{}).Where("id = ?", setID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("%w: set %s: %w", store.ErrQueryFailed, setID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: set %s", store.ErrNotFound, setID)
	}

	var rows []setRow
	err = db.Table("variant_set_appearances AS a").
		Select("v.*, c.name AS card_name, c.side AS card_side, c.type AS card_type, c.icon AS card_icon, a.card_number AS card_number, a.rarity AS rarity").
		Joins("JOIN variants v ON v.id = a.variant_id").
		Joins("JOIN cards c ON c.id = v.card_id").
		Where("a.set_id = ?", setID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: cards in set %s: %w", store.ErrQueryFailed, setID, err)
	}

	variantIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		variantIDs = append(variantIDs, r.ID)
	}
	quantities, err := s.ledger.Quantities(ctx, variantIDs)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	cards := make([]CardInSet, 0)
	for _, r := range rows {
		i, ok := index[r.CardID]
		if !ok {
			i = len(cards)
			index[r.CardID] = i
			cards = append(cards, CardInSet{
				Card:       store.Card{ID: r.CardID, Name: r.CardName, Side: r.CardSide, Type: r.CardType, Icon: r.CardIcon},
				CardNumber: r.CardNumber,
				Rarity:     r.Rarity,
			})
		}

		card := &cards[i]
		if utils.CompareAppearances(r.CardNumber, r.Rarity, card.CardNumber, card.Rarity) < 0 {
			card.CardNumber, card.Rarity = r.CardNumber, r.Rarity
		}
		card.Variants = append(card.Variants, VariantInSet{
			Variant:    r.Variant,
			CardNumber: r.CardNumber,
			Rarity:     r.Rarity,
			Quantity:   quantities[r.ID],
		})
	}

	for i := range cards {
		slices.SortFunc(cards[i].Variants, func(a, b VariantInSet) int {
			if c := utils.CompareAppearances(a.CardNumber, a.Rarity, b.CardNumber, b.Rarity); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	}
	slices.SortFunc(cards, func(a, b CardInSet) int {
		if c := utils.CompareAppearances(a.CardNumber, a.Rarity, b.CardNumber, b.Rarity); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return cards, nil
}

// PricingForVariant returns the pricing of one variant, or nil when it has none.
func (s *Service) PricingForVariant(ctx context.Context, variantID string) (*store.Pricing, error) {
	db, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	var n int64
	if err := db.Model(&store.Variant{}).Where("id = ?", variantID).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("%w: variant %s: %w", store.ErrQueryFailed, variantID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: variant %s", store.ErrNotFound, variantID)
	}

	prices, err := s.PricingForVariants(ctx, []string{variantID})
	if err != nil {
		return nil, err
	}
	p, ok := prices[variantID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// PricingForVariants resolves pricing for many variants with one join per
// chunk of ids. Variants without pricing are absent from the result.
func (s *Service) PricingForVariants(ctx context.Context, variantIDs []string) (map[string]store.Pricing, error) {
	out := make(map[string]store.Pricing)
	if len(variantIDs) == 0 {
		return out, nil
	}

	db, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	for _, chunk := range store.Chunk(variantIDs, idChunkSize) {
		var rows []VariantPricing
		err := db.Table("variants AS v").
			Select("v.id AS variant_id, p.*").
			Joins("JOIN pricing p ON p.id = v.pricing_id").
			Where("v.id IN ?", chunk).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: pricing lookup: %w", store.ErrQueryFailed, err)
		}
		for _, r := range rows {
			out[r.VariantID] = r.Pricing
		}
	}
	return out, nil
}
