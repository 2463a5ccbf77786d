package catalog

import (
	"fmt"

	"holocron/core/logger"
	"holocron/core/server"
	"holocron/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxPricingLookup = 1000

// Handler handles HTTP requests for catalogue reads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PricingLookupRequest is the body of a bulk pricing lookup.
type PricingLookupRequest struct {
	VariantIDs []string `json:"variantIds"`
}

// RegisterRoutes registers the catalogue routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/sets", h.HandleListSets)
	app.Get("/sets/:id/cards", h.HandleCardsInSet)
	app.Get("/cards/search", h.HandleSearch)
	app.Get("/variants/:id/pricing", h.HandleVariantPricing)
	app.Post("/pricing/lookup", h.HandlePricingLookup)
}

// HandleListSets lists every set.
// @Summary List sets
// @Description Sets ordered by release date (undated first), then name.
// @Tags catalog
// @Produce json
// @Success 200 {array} store.Set
// @Failure 503 {object} map[string]string "Store not ready"
// @Router /sets [get]
func (h *Handler) HandleListSets(c *fiber.Ctx) error {
	sets, err := h.service.ListSets(c.UserContext())
	if err != nil {
		return server.Error(c, err)
	}
	return c.JSON(sets)
}

// HandleCardsInSet lists the cards of a set with owned quantities.
// @Summary Cards in set
// @Tags catalog
// @Produce json
// @Param id path string true "Set ID"
// @Success 200 {array} CardInSet
// @Failure 404 {object} map[string]string "Unknown set"
// @Router /sets/{id}/cards [get]
func (h *Handler) HandleCardsInSet(c *fiber.Ctx) error {
	cards, err := h.service.CardsInSet(c.UserContext(), c.Params("id"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Cards in set failed", zap.String("set_id", c.Params("id")), zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(cards)
}

// HandleSearch searches cards by name.
// @Summary Search cards
// @Description Case, apostrophe and dash insensitive substring search grouped by card name.
// @Tags catalog
// @Produce json
// @Param q query string true "Name fragment"
// @Success 200 {array} SearchResult
// @Router /cards/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	return c.JSON(h.service.SearchCardsByName(c.UserContext(), c.Query("q")))
}

// HandleVariantPricing returns the pricing of one variant.
// @Summary Variant pricing
// @Tags catalog
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} store.Pricing
// @Failure 404 {object} map[string]string "Unknown variant or no pricing"
// @Router /variants/{id}/pricing [get]
func (h *Handler) HandleVariantPricing(c *fiber.Ctx) error {
	variantID := c.Params("id")
	pricing, err := h.service.PricingForVariant(c.UserContext(), variantID)
	if err != nil {
		return server.Error(c, err)
	}
	if pricing == nil {
		return server.Error(c, fmt.Errorf("%w: no pricing for variant %s", store.ErrNotFound, variantID))
	}
	return c.JSON(pricing)
}

// HandlePricingLookup resolves pricing for many variants at once.
// @Summary Bulk pricing lookup
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body PricingLookupRequest true "Variant ids"
// @Success 200 {object} map[string]store.Pricing
// @Failure 400 {object} map[string]string "Invalid body"
// @Router /pricing/lookup [post]
func (h *Handler) HandlePricingLookup(c *fiber.Ctx) error {
	var req PricingLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Error(c, fmt.Errorf("%w: %v", store.ErrInvalidArgument, err))
	}
	if len(req.VariantIDs) > maxPricingLookup {
		return server.Error(c, fmt.Errorf("%w: at most %d variant ids", store.ErrInvalidArgument, maxPricingLookup))
	}

	prices, err := h.service.PricingForVariants(c.UserContext(), req.VariantIDs)
	if err != nil {
		return server.Error(c, err)
	}
	return c.JSON(prices)
}
