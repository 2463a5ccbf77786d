package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"holocron/core/store"
	"holocron/core/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReconciler(t *testing.T) (*Reconciler, *store.Store, *spyInvalidator) {
	t.Helper()
	st := storetest.Open(t)
	spy := &spyInvalidator{}
	return NewReconciler(st, spy, zap.NewNop()), st, spy
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestReconcile_FreshInstall(t *testing.T) {
	r, st, spy := newReconciler(t)
	ctx := context.Background()

	status, err := st.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, store.StatusFresh, status)

	result, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)

	assert.Equal(t, store.StatusFresh, result.Status)
	assert.Equal(t, store.NoVersion, result.PreviousVersion)
	assert.Equal(t, 1, result.Version)
	assert.Equal(t, Counts{Sets: 3, Cards: 3, Variants: 4, Appearances: 4, Pricing: 1, PricingLinks: 1}, result.Inserted)
	assert.Equal(t, 2, result.UnmappedPricing)
	assert.Zero(t, result.Purged)
	assert.Equal(t, 1, spy.calls())

	enc, _ := st.Encyclopedia()
	assert.Equal(t, int64(3), count(t, enc, &store.Set{}))

	var luke store.Variant
	require.NoError(t, enc.Take(&luke, "id = ?", "v-luke").Error)
	require.NotNil(t, luke.PricingID)
	assert.Equal(t, "pc-ext-100", *luke.PricingID)

	var vader store.Variant
	require.NoError(t, enc.Take(&vader, "id = ?", "v-vader").Error)
	assert.Nil(t, vader.PricingID)
}

func TestReconcile_Idempotent(t *testing.T) {
	r, st, spy := newReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)

	result, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)
	assert.Equal(t, store.StatusUpToDate, result.Status)
	assert.Equal(t, Counts{}, result.Inserted)
	assert.Equal(t, 1, spy.calls(), "an up to date run does not invalidate")

	v, err := st.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestReconcile_VersionMonotonic(t *testing.T) {
	r, st, _ := newReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)
	result, err := r.Reconcile(ctx, sampleDataset(), 3)
	require.NoError(t, err)
	assert.Equal(t, store.StatusNeedsMigration, result.Status)

	status, err := st.Status(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, store.StatusUpToDate, status)

	status, err = st.Status(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, store.StatusNeedsMigration, status)

	result, err = r.Reconcile(ctx, sampleDataset(), 2)
	require.NoError(t, err)
	assert.Equal(t, store.StatusUpToDate, result.Status, "an older target never rewrites")
	v, _ := st.CurrentVersion(ctx)
	assert.Equal(t, 3, v)
}

func TestReconcile_MigrationPurgesOrphansAndPreservesCollection(t *testing.T) {
	r, st, spy := newReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, sampleDataset(), 5)
	require.NoError(t, err)

	col, _ := st.Collection()
	now := time.Now()
	require.NoError(t, col.Create(&[]store.CollectionEntry{
		{VariantID: "v-luke", Quantity: 2, UpdatedAt: now},
		{VariantID: "v-vader", Quantity: 1, UpdatedAt: now},
	}).Error)

	result, err := r.Reconcile(ctx, withoutVader(6), 6)
	require.NoError(t, err)
	assert.Equal(t, store.StatusNeedsMigration, result.Status)
	assert.Equal(t, 5, result.PreviousVersion)
	assert.Equal(t, 6, result.Version)
	assert.Equal(t, 1, result.Purged)
	assert.GreaterOrEqual(t, spy.calls(), 2)

	var entries []store.CollectionEntry
	require.NoError(t, col.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "v-luke", entries[0].VariantID)
	assert.Equal(t, 2, entries[0].Quantity)

	enc, _ := st.Encyclopedia()
	assert.Equal(t, int64(2), count(t, enc, &store.Card{}), "old catalogue is fully superseded")
}

func TestReconcile_VariantWithoutAppearanceKeepsCollectionEntry(t *testing.T) {
	r, st, _ := newReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)

	col, _ := st.Collection()
	require.NoError(t, col.Create(&store.CollectionEntry{VariantID: "v-vader", Quantity: 4, UpdatedAt: time.Now()}).Error)

	ds := sampleDataset()
	ds.VariantSetAppearances = ds.VariantSetAppearances[:1]
	result, err := r.Reconcile(ctx, ds, 2)
	require.NoError(t, err)
	assert.Zero(t, result.Purged)

	var entry store.CollectionEntry
	require.NoError(t, col.Take(&entry, "variant_id = ?", "v-vader").Error)
	assert.Equal(t, 4, entry.Quantity)
}

func TestReconcile_FreshRunDoesNotPurge(t *testing.T) {
	r, st, _ := newReconciler(t)
	ctx := context.Background()

	require.NoError(t, st.Open(ctx))
	col, _ := st.Collection()
	require.NoError(t, col.Create(&store.CollectionEntry{VariantID: "v-gone", Quantity: 1, UpdatedAt: time.Now()}).Error)

	result, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)
	assert.Zero(t, result.Purged)
	assert.Equal(t, int64(1), count(t, col, &store.CollectionEntry{}))
}

func TestReconcile_InvalidDatasetLeavesVersion(t *testing.T) {
	r, st, spy := newReconciler(t)
	ctx := context.Background()

	ds := sampleDataset()
	ds.Variants = append(ds.Variants, store.Variant{ID: "v-ghost", CardID: "nobody"})

	_, err := r.Reconcile(ctx, ds, 1)
	require.ErrorIs(t, err, ErrReconciliationFailed)
	assert.Contains(t, err.Error(), "unknown card")
	assert.Equal(t, 1, spy.calls())

	v, err := st.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.NoVersion, v)

	enc, _ := st.Encyclopedia()
	assert.False(t, enc.Migrator().HasTable(&store.Set{}))
}

func TestReconcile_InsertFailureRollsBackRebuild(t *testing.T) {
	r, st, _ := newReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, sampleDataset(), 1)
	require.NoError(t, err)

	enc, _ := st.Encyclopedia()
	require.NoError(t, enc.Callback().Create().Before("gorm:create").Register("test:fail_cards", func(db *gorm.DB) {
		if db.Statement.Table == "cards" {
			_ = db.AddError(errors.New("disk I/O error"))
		}
	}))

	_, err = r.Reconcile(ctx, withoutVader(2), 2)
	require.ErrorIs(t, err, ErrReconciliationFailed)
	assert.Contains(t, err.Error(), "insert cards")

	v, err := st.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "version marker is not advanced")

	assert.Equal(t, int64(3), count(t, enc, &store.Card{}), "previous catalogue survives the failed rebuild")
	assert.Equal(t, int64(4), count(t, enc, &store.Variant{}))
}

func TestReconcile_OpenFailure(t *testing.T) {
	blocker := t.TempDir() + "/file"
	require.NoError(t, writeFile(blocker, "x"))

	st := store.New(store.Config{Dir: blocker}, zap.NewNop())
	r := NewReconciler(st, nil, nil)

	_, err := r.Reconcile(context.Background(), sampleDataset(), 1)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
}
