package collection

import (
	"holocron/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the collection feature.
func NewFeature(st *store.Store, invalidator Invalidator, logger *zap.Logger) *Feature {
	svc := NewService(st, invalidator, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the feature's ledger service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "collection"
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
