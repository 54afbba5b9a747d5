package handlers

import (
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CartHandler handles HTTP requests for per-terminal carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log zerolog.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "cart").Logger(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts/:session")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClear)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productId", h.HandleSetQuantity)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the session's cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), c.Params("session"))
	if err != nil {
		return serviceError(c, h.log, "Could not load cart", err)
	}
	return c.JSON(cart)
}

// HandleClear empties the session's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), c.Params("session")); err != nil {
		return serviceError(c, h.log, "Could not clear cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddItem adds a product to the session's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	cart, err := h.service.AddItem(c.UserContext(), c.Params("session"), req.ProductID, req.Quantity, req.Notes)
	if err != nil {
		return serviceError(c, h.log, "Could not add item to cart", err)
	}
	return c.JSON(cart)
}

// HandleSetQuantity replaces a line's quantity, clamped to stock.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	cart, err := h.service.SetQuantity(c.UserContext(), c.Params("session"), c.Params("productId"), req.Quantity)
	if err != nil {
		return serviceError(c, h.log, "Could not update cart", err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem drops a product from the session's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.UserContext(), c.Params("session"), c.Params("productId"))
	if err != nil {
		return serviceError(c, h.log, "Could not update cart", err)
	}
	return c.JSON(cart)
}

type checkoutRequest struct {
	TableID string `json:"table_id" validate:"required"`
}

// HandleCheckout turns the cart into a placed order for the table.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.Checkout(c.UserContext(), c.Params("session"), req.TableID, userID(c))
	if err != nil {
		return serviceError(c, h.log, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
