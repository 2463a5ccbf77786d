// Package storetest opens throwaway stores for tests.
package storetest

import (
	"context"
	"testing"

	"holocron/core/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Open returns an opened store rooted in a temporary directory.
func Open(t testing.TB) *store.Store {
	t.Helper()

	st := store.New(store.Config{Dir: t.TempDir()}, zap.NewNop())
	require.NoError(t, st.Open(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// Seed creates the catalogue tables and inserts rows directly, bypassing
// reconciliation. Rows are inserted in argument order, one record per value.
func Seed(t testing.TB, st *store.Store, version int, rows ...any) {
	t.Helper()

	db, err := st.Encyclopedia()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(store.CatalogModels()...))
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
	if version != store.NoVersion {
		require.NoError(t, store.WriteVersion(db, version))
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
