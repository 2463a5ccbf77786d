package stats

import (
	"holocron/core/logger"
	"holocron/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for set statistics.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes registers the statistics routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/sets/:id/stats", h.HandleSetStats)
}

// HandleSetStats returns the completion statistics of a set.
// @Summary Set completion statistics
// @Description Owned/total unique cards per rarity bucket for one set.
// @Tags stats
// @Produce json
// @Param id path string true "Set ID"
// @Success 200 {object} SetStats
// @Failure 404 {object} map[string]string "Unknown set"
// @Failure 503 {object} map[string]string "Store not ready"
// @Router /sets/{id}/stats [get]
func (h *Handler) HandleSetStats(c *fiber.Ctx) error {
	setID := c.Params("id")
	stats, err := h.engine.SetStats(c.UserContext(), setID)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Set stats failed", zap.String("set_id", setID), zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(stats)
}
