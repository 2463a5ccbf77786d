package collection

import (
	"fmt"

	"holocron/core/logger"
	"holocron/core/server"
	"holocron/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the collection ledger.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// QuantityRequest is the body of a quantity update.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// QuantityResponse reports the owned quantity of a variant.
type QuantityResponse struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// RegisterRoutes registers the collection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/collection")
	group.Get("/", h.HandleList)
	group.Get("/:variantId", h.HandleGet)
	group.Put("/:variantId", h.HandleSet)
}

// HandleList returns every owned variant.
// @Summary List collection
// @Description Returns every ledger entry. Variants that are not owned are absent.
// @Tags collection
// @Produce json
// @Success 200 {array} store.CollectionEntry
// @Router /collection [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.Entries(c.UserContext())
	if err != nil {
		return server.Error(c, err)
	}
	return c.JSON(entries)
}

// HandleGet returns the owned quantity of a variant.
// @Summary Variant quantity
// @Tags collection
// @Produce json
// @Param variantId path string true "Variant ID"
// @Success 200 {object} QuantityResponse
// @Router /collection/{variantId} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	variantID := c.Params("variantId")
	qty, err := h.service.Quantity(c.UserContext(), variantID)
	if err != nil {
		return server.Error(c, err)
	}
	return c.JSON(QuantityResponse{VariantID: variantID, Quantity: qty})
}

// HandleSet sets the owned quantity of a variant.
// @Summary Set variant quantity
// @Description Zero removes the entry. Negative quantities and unknown variants are rejected.
// @Tags collection
// @Accept json
// @Produce json
// @Param variantId path string true "Variant ID"
// @Param body body QuantityRequest true "New quantity"
// @Success 200 {object} QuantityResponse
// @Failure 400 {object} map[string]string "Invalid quantity or unknown variant"
// @Router /collection/{variantId} [put]
func (h *Handler) HandleSet(c *fiber.Ctx) error {
	variantID := c.Params("variantId")

	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Error(c, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err))
	}
	if req.Quantity == nil {
		return server.Error(c, fmt.Errorf("%w: quantity is required", store.ErrInvalidArgument))
	}

	if err := h.service.SetQuantity(c.UserContext(), variantID, *req.Quantity); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Set quantity rejected",
			zap.String("variant_id", variantID),
			zap.Error(err),
		)
		return server.Error(c, err)
	}
	return c.JSON(QuantityResponse{VariantID: variantID, Quantity: *req.Quantity})
}
