package catalog

import (
	"context"
	"testing"
	"time"

	"holocron/core/reconcile"
	"holocron/core/store"
	"holocron/core/store/storetest"
	"holocron/feature/collection"
	"holocron/feature/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bundled(version int, withVader bool) *reconcile.Dataset {
	ds := &reconcile.Dataset{
		Version: version,
		Sets: []store.Set{
			{ID: "hoth", Name: "Hoth", ReleaseDate: storetest.Ptr("1996-11-01")},
			{ID: "premiere", Name: "Premiere", ReleaseDate: storetest.Ptr("1995-12-01")},
		},
		Cards: []store.Card{
			{ID: "luke", Name: "Luke Skywalker", Side: store.SideLight},
		},
		Variants: []store.Variant{
			{ID: "v-luke", CardID: "luke"},
		},
		VariantSetAppearances: []store.Appearance{
			{SetID: "premiere", VariantID: "v-luke", CardNumber: "1", Rarity: storetest.Ptr("R1")},
		},
		Pricing: []store.Pricing{
			{ExternalProductID: "ext-1", CardName: "Luke Skywalker", LastUpdated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		VariantPricingMappings: map[string]string{"v-luke": "ext-1"},
	}
	if withVader {
		ds.Cards = append(ds.Cards, store.Card{ID: "vader", Name: "Darth Vader", Side: store.SideDark})
		ds.Variants = append(ds.Variants, store.Variant{ID: "v-vader", CardID: "vader"})
		ds.VariantSetAppearances = append(ds.VariantSetAppearances,
			store.Appearance{SetID: "premiere", VariantID: "v-vader", CardNumber: "2", Rarity: storetest.Ptr("R2")})
	}
	return ds
}

func TestFreshInstallThroughMigration(t *testing.T) {
	ctx := context.Background()
	st := storetest.Open(t)
	engine := stats.NewEngine(stats.NewStoreSource(st), time.Minute, zap.NewNop())
	ledger := collection.NewService(st, engine, zap.NewNop())
	catalog := NewService(st, ledger, zap.NewNop())
	reconciler := reconcile.NewReconciler(st, engine, zap.NewNop())

	res, err := reconciler.Reconcile(ctx, bundled(1, true), 1)
	require.NoError(t, err)
	assert.Equal(t, store.StatusFresh, res.Status)

	sets, err := catalog.ListSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "premiere", sets[0].ID)

	cards, err := catalog.CardsInSet(ctx, "premiere")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Zero(t, c.Variants[0].Quantity)
	}

	require.NoError(t, ledger.SetQuantity(ctx, "v-luke", 2))
	require.NoError(t, ledger.SetQuantity(ctx, "v-vader", 1))

	s, err := engine.SetStats(ctx, "premiere")
	require.NoError(t, err)
	assert.Equal(t, stats.Count{Owned: 2, Total: 2}, s.Total)

	res, err = reconciler.Reconcile(ctx, bundled(2, false), 2)
	require.NoError(t, err)
	assert.Equal(t, store.StatusNeedsMigration, res.Status)
	assert.Equal(t, 1, res.Purged)

	q, err := ledger.Quantity(ctx, "v-luke")
	require.NoError(t, err)
	assert.Equal(t, 2, q, "surviving variants keep their quantity")

	s, err = engine.SetStats(ctx, "premiere")
	require.NoError(t, err)
	assert.Equal(t, stats.Count{Owned: 1, Total: 1}, s.Total, "migration drops cached statistics")

	results := catalog.SearchCardsByName(ctx, "vader")
	assert.Empty(t, results)

	p, err := catalog.PricingForVariant(ctx, "v-luke")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, reconcile.PricingID("ext-1"), p.ID)
}
