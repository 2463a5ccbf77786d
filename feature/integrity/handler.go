package integrity

import (
	"holocron/core/logger"
	"holocron/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/integrity", h.HandleIntegrityCheck)
}

// HandleIntegrityCheck runs every integrity check.
// @Summary Run Integrity Checks
// @Description Compares both stores against their models and counts dangling references.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report
// @Failure 503 {object} map[string]string "Store not ready"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering integrity checks")

	report, err := h.service.Check(c.UserContext())
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return server.Error(c, err)
	}
	if !report.Healthy {
		l.Warn("Integrity problems detected", zap.Int("version", report.Version))
	}
	return c.JSON(report)
}
