package stats

import (
	"context"
	"testing"
	"time"

	"holocron/core/store"
	"holocron/core/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedPremiere(t *testing.T) *store.Store {
	t.Helper()
	st := storetest.Open(t)
	storetest.Seed(t, st, 1,
		&store.Set{ID: "premiere", Name: "Premiere"},
		&store.Set{ID: "empty", Name: "Empty"},
		&[]store.Card{
			{ID: "c-common", Name: "Common", Side: store.SideLight},
			{ID: "c-uncommon", Name: "Uncommon", Side: store.SideDark},
			{ID: "c-rare", Name: "Rare", Side: store.SideLight},
			{ID: "c-none", Name: "None", Side: store.SideDark},
		},
		&[]store.Variant{
			{ID: "v-common", CardID: "c-common"},
			{ID: "v-uncommon", CardID: "c-uncommon"},
			{ID: "v-rare", CardID: "c-rare"},
			{ID: "v-none", CardID: "c-none"},
		},
		&[]store.Appearance{
			{SetID: "premiere", VariantID: "v-common", CardNumber: "1", Rarity: storetest.Ptr("C1")},
			{SetID: "premiere", VariantID: "v-uncommon", CardNumber: "2", Rarity: storetest.Ptr("U2")},
			{SetID: "premiere", VariantID: "v-rare", CardNumber: "3", Rarity: storetest.Ptr("R1")},
			{SetID: "premiere", VariantID: "v-none", CardNumber: "4"},
		},
	)

	col, err := st.Collection()
	require.NoError(t, err)
	require.NoError(t, col.Create(&[]store.CollectionEntry{
		{VariantID: "v-common", Quantity: 3, UpdatedAt: time.Now()},
		{VariantID: "v-none", Quantity: 1, UpdatedAt: time.Now()},
	}).Error)
	return st
}

func TestStoreSource_EndToEnd(t *testing.T) {
	st := seedPremiere(t)
	engine := NewEngine(NewStoreSource(st), time.Minute, zap.NewNop())

	stats, err := engine.SetStats(context.Background(), "premiere")
	require.NoError(t, err)

	assert.Equal(t, "premiere", stats.SetID)
	assert.Equal(t, Count{Owned: 2, Total: 4}, stats.Total)
	assert.Equal(t, Count{Owned: 1, Total: 1}, stats.Common)
	assert.Equal(t, Count{Owned: 0, Total: 1}, stats.Uncommon)
	assert.Equal(t, Count{Owned: 0, Total: 1}, stats.Rare)
	assert.Equal(t, Count{Owned: 1, Total: 1}, stats.Other)

	empty, err := engine.SetStats(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, Count{}, empty.Total)

	_, err = engine.SetStats(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreSource_OwnedVariants(t *testing.T) {
	st := seedPremiere(t)
	src := NewStoreSource(st)

	owned, err := src.OwnedVariants(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, owned)

	owned, err = src.OwnedVariants(context.Background(), []string{"v-common", "v-rare", "v-none"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"v-common": {}, "v-none": {}}, owned)
}

func TestStoreSource_NotSeeded(t *testing.T) {
	st := storetest.Open(t)

	_, err := NewStoreSource(st).Appearances(context.Background(), "premiere")
	assert.ErrorIs(t, err, store.ErrNotInitialized)

	_, err = NewStoreSource(store.New(store.Config{Dir: t.TempDir()}, nil)).Appearances(context.Background(), "premiere")
	assert.ErrorIs(t, err, store.ErrNotInitialized)
}
