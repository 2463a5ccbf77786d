package integrity

import (
	"context"
	"testing"

	"holocron/core/storage/mocks"
	"holocron/core/store"
	"holocron/core/store/storetest"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedHealthy(t *testing.T) *store.Store {
	t.Helper()
	st := storetest.Open(t)
	storetest.Seed(t, st, 3,
		&store.Set{ID: "premiere", Name: "Premiere"},
		&store.Card{ID: "luke", Name: "Luke Skywalker"},
		&store.Variant{ID: "v-luke", CardID: "luke"},
		&store.Appearance{SetID: "premiere", VariantID: "v-luke", CardNumber: "1"},
	)
	return st
}

func publishedClient(published bool) *mocks.Client {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "holocron").Return(true, nil)

	ch := make(chan minio.ObjectInfo, 1)
	if published {
		ch <- minio.ObjectInfo{Key: "datasets/latest.json"}
	}
	close(ch)
	client.On("ListObjects", mock.Anything, "holocron", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))
	return client
}

func TestCheck_Healthy(t *testing.T) {
	svc := NewService(seedHealthy(t), nil, "", "", zap.NewNop())

	report, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy)
	assert.Equal(t, 3, report.Version)
	assert.True(t, report.Encyclopedia.Matched)
	assert.Contains(t, report.Encyclopedia.Tables, "metadata")
	assert.True(t, report.Collection.Matched)
	require.NotNil(t, report.References)
	assert.False(t, report.References.Broken())
	assert.Nil(t, report.Dataset)
}

func TestCheck_NotSeeded(t *testing.T) {
	svc := NewService(storetest.Open(t), nil, "", "", nil)

	report, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.Equal(t, store.NoVersion, report.Version)
	assert.False(t, report.Encyclopedia.Matched)
	assert.Equal(t, "missing", report.Encyclopedia.Tables["sets"].Status)
	assert.Nil(t, report.References)
}

func TestCheck_BrokenLedger(t *testing.T) {
	st := seedHealthy(t)
	col, err := st.Collection()
	require.NoError(t, err)
	require.NoError(t, col.Create(&store.CollectionEntry{VariantID: "v-gone", Quantity: 1}).Error)

	report, err := NewService(st, nil, "", "", nil).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.Equal(t, int64(1), report.References.EntriesWithoutVariant)
}

func TestCheck_PublishedDataset(t *testing.T) {
	t.Run("Published", func(t *testing.T) {
		svc := NewService(seedHealthy(t), publishedClient(true), "holocron", "datasets/latest.json", nil)
		report, err := svc.Check(context.Background())
		require.NoError(t, err)
		require.NotNil(t, report.Dataset)
		assert.True(t, report.Dataset.Published)
		assert.True(t, report.Healthy)
	})

	t.Run("Missing", func(t *testing.T) {
		svc := NewService(seedHealthy(t), publishedClient(false), "holocron", "datasets/latest.json", nil)
		report, err := svc.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Dataset.Published)
		assert.Empty(t, report.Dataset.Error)
		assert.False(t, report.Healthy)
	})

	t.Run("Bucket Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "holocron").Return(false, assert.AnError)

		svc := NewService(seedHealthy(t), client, "holocron", "datasets/latest.json", nil)
		report, err := svc.Check(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, report.Dataset.Error)
		assert.False(t, report.Healthy)
	})
}

func TestCheck_StoreClosed(t *testing.T) {
	st := store.New(store.Config{Dir: t.TempDir()}, nil)

	_, err := NewService(st, nil, "", "", nil).Check(context.Background())
	assert.ErrorIs(t, err, store.ErrNotInitialized)
}
