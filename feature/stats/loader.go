package stats

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	engine  *Engine
	handler *Handler
}

// NewFeature creates the statistics feature around engine.
func NewFeature(engine *Engine, logger *zap.Logger) *Feature {
	return &Feature{engine: engine, handler: NewHandler(engine, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "stats"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
