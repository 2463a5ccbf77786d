package catalog

import "holocron/core/store"

// VariantInSet is a variant as it appears in one set, with its owned quantity.
type VariantInSet struct {
	store.Variant
	CardNumber string  `json:"cardNumber"`
	Rarity     *string `json:"rarity,omitempty"`
	Quantity   int     `json:"quantity"`
}

// CardInSet is a card that appears in a set. CardNumber and Rarity come from
// its representative appearance (lowest card number). Variants only lists the
// card's variants that appear in this set.
type CardInSet struct {
	store.Card
	CardNumber string         `json:"cardNumber"`
	Rarity     *string        `json:"rarity,omitempty"`
	Variants   []VariantInSet `json:"variants"`
}

// SetAppearance identifies where a variant was printed.
type SetAppearance struct {
	SetID       string  `json:"setId"`
	SetName     string  `json:"setName"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
	CardNumber  string  `json:"cardNumber"`
	Rarity      *string `json:"rarity,omitempty"`
}

// SearchVariant is a variant in a search result.
type SearchVariant struct {
	store.Variant
	Side string `json:"side"`
	// Appearance is the variant's earliest-released set appearance.
	Appearance SetAppearance  `json:"appearance"`
	Quantity   int            `json:"quantity"`
	Pricing    *store.Pricing `json:"pricing,omitempty"`
}

// Match kinds of a search result.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
)

// SearchResult groups every variant of one card name across all sets.
type SearchResult struct {
	Name     string          `json:"name"`
	Match    string          `json:"match"`
	Variants []SearchVariant `json:"variants"`
}

// VariantPricing pairs a variant id with its pricing record.
type VariantPricing struct {
	VariantID     string `json:"variantId"`
	store.Pricing `gorm:"embedded"`
}
