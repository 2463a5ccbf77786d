package store

import "time"

// Set is a single printed release. Limited and Unlimited editions of the same
// physical release are distinct rows.
type Set struct {
	ID           string  `gorm:"column:id;primaryKey" json:"id"`
	Name         string  `gorm:"column:name;not null" json:"name"`
	Abbreviation *string `gorm:"column:abbreviation" json:"abbreviation,omitempty"`
	// ReleaseDate is an ISO date (YYYY-MM-DD) so that it orders lexically.
	ReleaseDate *string `gorm:"column:release_date" json:"releaseDate,omitempty"`
	IconPath    *string `gorm:"column:icon_path" json:"iconPath,omitempty"`
}

// TableName overrides the table name.
func (Set) TableName() string {
	return "sets"
}

// Card is a unique named card. Ids are edition-scoped (e.g. "..._limited").
type Card struct {
	ID   string  `gorm:"column:id;primaryKey" json:"id"`
	Name string  `gorm:"column:name;not null;index" json:"name"`
	Side string  `gorm:"column:side" json:"side"`
	Type string  `gorm:"column:type" json:"type"`
	Icon *string `gorm:"column:icon" json:"icon,omitempty"`
}

// TableName overrides the table name.
func (Card) TableName() string {
	return "cards"
}

// Card sides.
const (
	SideLight = "light"
	SideDark  = "dark"
)

// Variant is a specific printing or finish of a Card.
type Variant struct {
	ID      string  `gorm:"column:id;primaryKey" json:"id"`
	CardID  string  `gorm:"column:card_id;not null;index" json:"cardId"`
	Name    string  `gorm:"column:name" json:"name"`
	Code    string  `gorm:"column:code" json:"code"`
	Details *string `gorm:"column:details" json:"details,omitempty"`
	// PricingID is a weak reference into Pricing; it never cascades.
	PricingID *string `gorm:"column:pricing_id;index" json:"pricingId,omitempty"`
}

// TableName overrides the table name.
func (Variant) TableName() string {
	return "variants"
}

// Appearance records that a Variant appears in a Set under a card number.
type Appearance struct {
	SetID      string  `gorm:"column:set_id;primaryKey" json:"setId"`
	VariantID  string  `gorm:"column:variant_id;primaryKey;index" json:"variantId"`
	CardNumber string  `gorm:"column:card_number" json:"cardNumber"`
	Rarity     *string `gorm:"column:rarity" json:"rarity,omitempty"`
}

// TableName overrides the table name.
func (Appearance) TableName() string {
	return "variant_set_appearances"
}

// Pricing is one priced product from the offline price list.
type Pricing struct {
	ID                  string    `gorm:"column:id;primaryKey" json:"id"`
	CardName            string    `gorm:"column:card_name" json:"cardName"`
	ExternalProductID   string    `gorm:"column:external_product_id;not null;uniqueIndex" json:"externalProductId"`
	ExternalProductName string    `gorm:"column:external_product_name" json:"externalProductName"`
	ExternalSetName     string    `gorm:"column:external_set_name" json:"externalSetName"`
	UngradedPrice       *float64  `gorm:"column:ungraded_price" json:"ungradedPrice,omitempty"`
	Grade7Price         *float64  `gorm:"column:grade7_price" json:"grade7Price,omitempty"`
	Grade8Price         *float64  `gorm:"column:grade8_price" json:"grade8Price,omitempty"`
	Grade9Price         *float64  `gorm:"column:grade9_price" json:"grade9Price,omitempty"`
	Grade10Price        *float64  `gorm:"column:grade10_price" json:"grade10Price,omitempty"`
	LastUpdated         time.Time `gorm:"column:last_updated" json:"lastUpdated"`
}

// TableName overrides the table name.
func (Pricing) TableName() string {
	return "pricing"
}

// Metadata is a key/value row in the encyclopedia store.
type Metadata struct {
	Key   string `gorm:"column:meta_key;primaryKey"`
	Value string `gorm:"column:meta_value;not null"`
}

// TableName overrides the table name.
func (Metadata) TableName() string {
	return "metadata"
}

// CollectionEntry is one owned-quantity row. Absence means zero.
type CollectionEntry struct {
	VariantID string    `gorm:"column:variant_id;primaryKey" json:"variantId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
}

// TableName overrides the table name.
func (CollectionEntry) TableName() string {
	return "collection_entries"
}

// CatalogModels lists the encyclopedia tables that a rebuild drops and recreates,
// in insert dependency order. Metadata is not part of the catalogue.
func CatalogModels() []any {
	return []any{&Set{}, &Card{}, &Variant{}, &Appearance{}, &Pricing{}}
}
