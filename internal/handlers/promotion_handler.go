package handlers

import (
	"strings"

	"cafepos/internal/format"
	"cafepos/internal/models"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PromotionHandler handles HTTP requests for discount promotions.
type PromotionHandler struct {
	service  *services.PromotionService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *services.PromotionService, log zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "promotion").Logger(),
	}
}

// RegisterRoutes registers the promotion routes. manage guards creating and
// deactivating promotions; any staff member may apply one to an order.
func (h *PromotionHandler) RegisterRoutes(router fiber.Router, manage ...fiber.Handler) {
	promotionRoutes := router.Group("/promotions")
	promotionRoutes.Get("/", h.HandleGetPromotions)
	promotionRoutes.Get("/:id", h.HandleGetPromotion)
	promotionRoutes.Post("/", withGuards(manage, h.HandleCreatePromotion)...)
	promotionRoutes.Delete("/:id", withGuards(manage, h.HandleDeactivatePromotion)...)

	router.Post("/orders/:id/promotion", h.HandleApplyPromotion)
}

// HandleGetPromotions lists promotions. ?amount= narrows the list to those
// applicable to an order of that total, ?active=true to the usable ones.
func (h *PromotionHandler) HandleGetPromotions(c *fiber.Ctx) error {
	var (
		promotions []models.Promotion
		err        error
	)
	switch {
	case strings.TrimSpace(c.Query("amount")) != "":
		raw := strings.TrimSpace(c.Query("amount"))
		amount, parseErr := decimal.NewFromString(raw)
		if parseErr != nil {
			amount = format.ParseVND(raw)
		}
		promotions, err = h.service.ApplicablePromotions(amount)
	case c.QueryBool("active"):
		promotions, err = h.service.ActivePromotions()
	default:
		promotions, err = h.service.GetAllPromotions()
	}
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve promotions", err)
	}
	return c.JSON(promotions)
}

// HandleGetPromotion retrieves a single promotion.
func (h *PromotionHandler) HandleGetPromotion(c *fiber.Ctx) error {
	promotion, err := h.service.GetPromotion(c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve promotion", err)
	}
	return c.JSON(promotion)
}

// HandleCreatePromotion adds a promotion.
func (h *PromotionHandler) HandleCreatePromotion(c *fiber.Ctx) error {
	var promotion models.Promotion
	if ok, err := bindJSON(c, h.validate, &promotion); !ok {
		return err
	}
	if err := h.service.CreatePromotion(&promotion); err != nil {
		return serviceError(c, h.log, "Could not create promotion", err)
	}
	return c.Status(fiber.StatusCreated).JSON(promotion)
}

// HandleDeactivatePromotion switches a promotion off.
func (h *PromotionHandler) HandleDeactivatePromotion(c *fiber.Ctx) error {
	promotion, err := h.service.DeactivatePromotion(c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not deactivate promotion", err)
	}
	return c.JSON(promotion)
}

type applyPromotionRequest struct {
	PromotionID string `json:"promotion_id" validate:"required"`
}

// HandleApplyPromotion discounts an order with a promotion.
func (h *PromotionHandler) HandleApplyPromotion(c *fiber.Ctx) error {
	var req applyPromotionRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.ApplyToOrder(c.Params("id"), req.PromotionID)
	if err != nil {
		return serviceError(c, h.log, "Could not apply promotion", err)
	}
	return c.JSON(order)
}
