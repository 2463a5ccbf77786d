package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"holocron/core/store"
)

// Dataset is the bundled catalogue in its in-memory form.
type Dataset struct {
	// Version is the catalogue schema version this dataset was published as.
	Version int `json:"version"`

	Sets                  []store.Set        `json:"sets"`
	Cards                 []store.Card       `json:"cards"`
	Variants              []store.Variant    `json:"variants"`
	VariantSetAppearances []store.Appearance `json:"variantSetAppearances"`
	Pricing               []store.Pricing    `json:"pricing,omitempty"`

	// VariantPricingMappings maps a variant id to an external product id.
	VariantPricingMappings map[string]string `json:"variantPricingMappings,omitempty"`
}

// Decode reads a JSON dataset.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// PricingID derives the internal pricing id for an external product id.
func PricingID(externalProductID string) string {
	return "pc-" + externalProductID
}

// TargetVersion resolves the version a dataset is reconciled to. A positive
// override wins; otherwise the dataset must carry a version of at least 1, so
// a document missing its "version" field is rejected.
func TargetVersion(d *Dataset, override int) (int, error) {
	if override > 0 {
		return override, nil
	}
	if d == nil || d.Version < 1 {
		version := 0
		if d != nil {
			version = d.Version
		}
		return 0, fmt.Errorf("%w: dataset version %d, want 1 or more", store.ErrInvalidArgument, version)
	}
	return d.Version, nil
}

// batch is a validated, de-duplicated dataset ready to be written.
type batch struct {
	sets        []store.Set
	cards       []store.Card
	variants    []store.Variant
	appearances []store.Appearance
	pricing     []store.Pricing

	// links maps a pricing id to the variants that reference it.
	links    map[string][]string
	unmapped int
}

// Validate checks the referential invariants of the dataset without
// modifying it.
func (d *Dataset) Validate() error {
	_, err := prepare(d)
	return err
}

// prepare de-duplicates rows by key (last occurrence wins, first position
// kept), checks references and resolves pricing mappings.
func prepare(d *Dataset) (*batch, error) {
	if d == nil {
		return nil, fmt.Errorf("dataset is nil")
	}

	b := &batch{
		sets:        dedupe(d.Sets, func(s store.Set) string { return s.ID }),
		cards:       dedupe(d.Cards, func(c store.Card) string { return c.ID }),
		variants:    dedupe(d.Variants, func(v store.Variant) string { return v.ID }),
		appearances: dedupe(d.VariantSetAppearances, func(a store.Appearance) string { return a.SetID + "\x00" + a.VariantID }),
		links:       make(map[string][]string),
	}

	sets := make(map[string]struct{}, len(b.sets))
	for _, s := range b.sets {
		if s.ID == "" {
			return nil, fmt.Errorf("set %q has an empty id", s.Name)
		}
		sets[s.ID] = struct{}{}
	}

	cards := make(map[string]struct{}, len(b.cards))
	for _, c := range b.cards {
		if c.ID == "" {
			return nil, fmt.Errorf("card %q has an empty id", c.Name)
		}
		if c.Side != store.SideLight && c.Side != store.SideDark {
			return nil, fmt.Errorf("card %s has unknown side %q", c.ID, c.Side)
		}
		cards[c.ID] = struct{}{}
	}

	variants := make(map[string]struct{}, len(b.variants))
	for _, v := range b.variants {
		if v.ID == "" {
			return nil, fmt.Errorf("variant of card %s has an empty id", v.CardID)
		}
		if _, ok := cards[v.CardID]; !ok {
			return nil, fmt.Errorf("variant %s references unknown card %s", v.ID, v.CardID)
		}
		variants[v.ID] = struct{}{}
	}

	for _, a := range b.appearances {
		if _, ok := sets[a.SetID]; !ok {
			return nil, fmt.Errorf("appearance of variant %s references unknown set %s", a.VariantID, a.SetID)
		}
		if _, ok := variants[a.VariantID]; !ok {
			return nil, fmt.Errorf("appearance in set %s references unknown variant %s", a.SetID, a.VariantID)
		}
	}

	pricing := make([]store.Pricing, len(d.Pricing))
	for i, p := range d.Pricing {
		if p.ExternalProductID == "" {
			return nil, fmt.Errorf("pricing record %q has an empty external product id", p.CardName)
		}
		if p.ID == "" {
			p.ID = PricingID(p.ExternalProductID)
		}
		pricing[i] = p
	}
	b.pricing = dedupe(pricing, func(p store.Pricing) string { return p.ID })

	byExternal := make(map[string]string, len(b.pricing))
	for _, p := range b.pricing {
		if other, ok := byExternal[p.ExternalProductID]; ok {
			return nil, fmt.Errorf("external product %s is used by pricing %s and %s", p.ExternalProductID, other, p.ID)
		}
		byExternal[p.ExternalProductID] = p.ID
	}

	variantIDs := make([]string, 0, len(d.VariantPricingMappings))
	for id := range d.VariantPricingMappings {
		variantIDs = append(variantIDs, id)
	}
	sort.Strings(variantIDs)

	for _, variantID := range variantIDs {
		pricingID, ok := byExternal[d.VariantPricingMappings[variantID]]
		if _, known := variants[variantID]; !ok || !known {
			b.unmapped++
			continue
		}
		b.links[pricingID] = append(b.links[pricingID], variantID)
	}

	return b, nil
}

func dedupe[T any](rows []T, key func(T) string) []T {
	index := make(map[string]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if i, ok := index[k]; ok {
			out[i] = row
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	return out
}
