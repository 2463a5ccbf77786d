package stats

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) *fiber.App {
	app := fiber.New()
	engine := NewEngine(NewStoreSource(seedPremiere(t)), time.Minute, zap.NewNop())
	feature := NewFeature(engine, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app
}

func TestHandleSetStats(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sets/premiere/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body SetStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Count{Owned: 2, Total: 4}, body.Total)

	resp, err = app.Test(httptest.NewRequest("GET", "/sets/missing/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(NewEngine(&fakeSource{}, 0, nil), zap.NewNop())
	assert.Equal(t, "stats", feature.Name())
	assert.True(t, feature.IsEnabled())
}
