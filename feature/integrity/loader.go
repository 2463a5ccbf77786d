package integrity

import (
	"holocron/core/storage"
	"holocron/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(st *store.Store, client storage.Client, bucket, object string, logger *zap.Logger) *Feature {
	svc := NewService(st, client, bucket, object, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the underlying service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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
