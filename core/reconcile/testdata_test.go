package reconcile

import (
	"os"
	"sync/atomic"
	"time"

	"holocron/core/store"
	"holocron/core/store/storetest"
)

// spyInvalidator counts InvalidateAll calls.
type spyInvalidator struct {
	n atomic.Int64
}

func (s *spyInvalidator) InvalidateAll() {
	s.n.Add(1)
}

func (s *spyInvalidator) calls() int {
	return int(s.n.Load())
}

func sampleDataset() *Dataset {
	return &Dataset{
		Version: 1,
		Sets: []store.Set{
			{ID: "hoth-limited", Name: "Hoth", ReleaseDate: storetest.Ptr("1996-11-01")},
			{ID: "premiere-limited", Name: "Premiere", ReleaseDate: storetest.Ptr("1995-12-01")},
			{ID: "promo", Name: "Promo"},
		},
		Cards: []store.Card{
			{ID: "luke_limited", Name: "Luke Skywalker", Side: store.SideLight, Type: "Character"},
			{ID: "vader_limited", Name: "Darth Vader", Side: store.SideDark, Type: "Character"},
			{ID: "speeder_limited", Name: "Han's Speeder", Side: store.SideLight, Type: "Vehicle"},
		},
		Variants: []store.Variant{
			{ID: "v-luke", CardID: "luke_limited", Name: "Luke Skywalker", Code: "base"},
			{ID: "v-luke-foil", CardID: "luke_limited", Name: "Luke Skywalker (Foil)", Code: "foil"},
			{ID: "v-vader", CardID: "vader_limited", Name: "Darth Vader", Code: "base"},
			{ID: "v-speeder", CardID: "speeder_limited", Name: "Han's Speeder", Code: "base"},
		},
		VariantSetAppearances: []store.Appearance{
			{SetID: "premiere-limited", VariantID: "v-luke", CardNumber: "1", Rarity: storetest.Ptr("R1")},
			{SetID: "premiere-limited", VariantID: "v-vader", CardNumber: "2", Rarity: storetest.Ptr("R2")},
			{SetID: "hoth-limited", VariantID: "v-speeder", CardNumber: "10", Rarity: storetest.Ptr("U1")},
			{SetID: "hoth-limited", VariantID: "v-luke-foil", CardNumber: "P1"},
		},
		Pricing: []store.Pricing{
			{
				CardName:            "Luke Skywalker",
				ExternalProductID:   "ext-100",
				ExternalProductName: "Luke Skywalker [Premiere]",
				ExternalSetName:     "Premiere",
				UngradedPrice:       storetest.Ptr(12.5),
				LastUpdated:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		VariantPricingMappings: map[string]string{
			"v-luke":    "ext-100",
			"v-missing": "ext-100",
			"v-vader":   "ext-999",
		},
	}
}

// withoutVader returns the sample dataset minus Darth Vader.
func withoutVader(version int) *Dataset {
	ds := sampleDataset()
	ds.Version = version
	ds.Cards = ds.Cards[:1:1]
	ds.Cards = append(ds.Cards, store.Card{ID: "speeder_limited", Name: "Han's Speeder", Side: store.SideLight, Type: "Vehicle"})
	ds.Variants = []store.Variant{ds.Variants[0], ds.Variants[1], ds.Variants[3]}
	ds.VariantSetAppearances = []store.Appearance{ds.VariantSetAppearances[0], ds.VariantSetAppearances[2], ds.VariantSetAppearances[3]}
	delete(ds.VariantPricingMappings, "v-vader")
	return ds
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
