package catalog

import (
	"context"
	"testing"

	"holocron/core/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(results []SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

func TestSearch_Normalization(t *testing.T) {
	svc := newService(t, &fakeLedger{})
	ctx := context.Background()

	for _, q := range []string{"Han's", "Hans", "Han’s", "HAN'S SPEEDER", "han‘s"} {
		t.Run(q, func(t *testing.T) {
			assert.Contains(t, names(svc.SearchCardsByName(ctx, q)), "Han's Speeder")
		})
	}
}

func TestSearch_ExactBeforeFuzzy(t *testing.T) {
	svc := newService(t, &fakeLedger{})

	results := svc.SearchCardsByName(context.Background(), "hans")
	assert.Equal(t, []string{"Hansel", "Han's Speeder"}, names(results))
	assert.Equal(t, MatchExact, results[0].Match)
	assert.Equal(t, MatchFuzzy, results[1].Match)

	results = svc.SearchCardsByName(context.Background(), "han")
	assert.Equal(t, []string{"Han's Speeder", "Hansel"}, names(results), "exact ties are alphabetical")
}

func TestSearch_VariantsAcrossSets(t *testing.T) {
	svc := newService(t, &fakeLedger{quantities: map[string]int{"v1-foil": 1}})

	results := svc.SearchCardsByName(context.Background(), "luke")
	require.Len(t, results, 1)
	luke := results[0]
	require.Len(t, luke.Variants, 2)

	assert.Equal(t, "v1", luke.Variants[0].ID)
	assert.Equal(t, "premiere", luke.Variants[0].Appearance.SetID)
	require.NotNil(t, luke.Variants[0].Pricing)
	assert.Equal(t, "ext-1", luke.Variants[0].Pricing.ExternalProductID)

	assert.Equal(t, "v1-foil", luke.Variants[1].ID)
	assert.Equal(t, "hoth", luke.Variants[1].Appearance.SetID)
	assert.Equal(t, 1, luke.Variants[1].Quantity)
	assert.Nil(t, luke.Variants[1].Pricing)
}

func TestSearch_EarliestAppearanceAndUnprintedVariants(t *testing.T) {
	svc := newService(t, &fakeLedger{})

	results := svc.SearchCardsByName(context.Background(), "speeder")
	require.Len(t, results, 1)
	require.Len(t, results[0].Variants, 1, "variants without appearances are left out")

	v := results[0].Variants[0]
	assert.Equal(t, "v10", v.ID)
	assert.Equal(t, "premiere", v.Appearance.SetID, "dated sets win over undated ones")
	assert.Equal(t, "10", v.Appearance.CardNumber)
	assert.Equal(t, "light", v.Side)
}

func TestSearch_Degrades(t *testing.T) {
	svc := newService(t, &fakeLedger{fail: map[string]bool{"vp1": true}})
	ctx := context.Background()

	assert.Equal(t, []string{"Han's Speeder"}, names(svc.SearchCardsByName(ctx, "han")), "a failing name is dropped")

	unseeded := NewService(storetest.Open(t), &fakeLedger{}, nil)
	results := unseeded.SearchCardsByName(ctx, "han")
	assert.NotNil(t, results)
	assert.Empty(t, results)

	assert.Empty(t, svc.SearchCardsByName(ctx, "   "))
	assert.Empty(t, svc.SearchCardsByName(ctx, "yoda"))
}
