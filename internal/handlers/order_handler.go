package handlers

import (
	"strings"
	"time"

	"cafepos/internal/format"
	"cafepos/internal/models"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	payments *services.PaymentService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, payments *services.PaymentService, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		payments: payments,
		validate: validator.New(),
		log:      log.With().Str("handler", "order").Logger(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleOpenOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/change", h.HandlePreviewChange)
	orderRoutes.Post("/:id/items", h.HandleAddItem)
	orderRoutes.Put("/:id/items/:productId", h.HandleUpdateItem)
	orderRoutes.Delete("/:id/items/:productId", h.HandleRemoveItem)
	orderRoutes.Post("/:id/discount", h.HandleApplyDiscount)
	orderRoutes.Post("/:id/place", h.transition(h.service.PlaceOrder))
	orderRoutes.Post("/:id/ready", h.transition(h.service.MarkReady))
	orderRoutes.Post("/:id/serve", h.transition(h.service.ServeOrder))
	orderRoutes.Post("/:id/complete", h.transition(h.service.CompleteOrder))
	orderRoutes.Post("/:id/cancel", h.HandleCancel)
}

// HandleGetOrders lists orders. Supported filters: ?status=, ?table_id=,
// ?user_id=, and ?from=&to= as dd/MM/yyyy days.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := services.OrderFilter{
		Status:  models.OrderStatus(strings.ToLower(c.Query("status"))),
		TableID: c.Query("table_id"),
		UserID:  c.Query("user_id"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return badRequest(c, "Unknown order status "+string(filter.Status), nil)
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, err := dateRange(c, time.Now())
		if err != nil {
			return badRequest(c, "Invalid date range", err)
		}
		filter.From, filter.To = from, to
	}

	orders, err := h.service.ListOrders(filter)
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with its lines.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

type openOrderRequest struct {
	TableID    string  `json:"table_id" validate:"required"`
	CustomerID *string `json:"customer_id,omitempty"`
}

// HandleOpenOrder opens an order for a table, or returns the table's
// active one with 200 instead of 201.
func (h *OrderHandler) HandleOpenOrder(c *fiber.Ctx) error {
	var req openOrderRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, created, err := h.service.OpenOrder(req.TableID, userID(c), req.CustomerID)
	if err != nil {
		return serviceError(c, h.log, "Could not open order", err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(order)
	}
	return c.JSON(order)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
	Notes     string `json:"notes" validate:"omitempty,max=255"`
}

// HandleAddItem adds a product to a pending order.
func (h *OrderHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.AddItem(c.Params("id"), req.ProductID, req.Quantity, req.Notes)
	if err != nil {
		return serviceError(c, h.log, "Could not add item", err)
	}
	return c.JSON(order)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateItem replaces a line's quantity. Zero removes the line.
func (h *OrderHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req quantityRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.UpdateItemQuantity(c.Params("id"), c.Params("productId"), req.Quantity)
	if err != nil {
		return serviceError(c, h.log, "Could not update item", err)
	}
	return c.JSON(order)
}

// HandleRemoveItem drops a line from a pending order.
func (h *OrderHandler) HandleRemoveItem(c *fiber.Ctx) error {
	order, err := h.service.RemoveItem(c.Params("id"), c.Params("productId"))
	if err != nil {
		return serviceError(c, h.log, "Could not remove item", err)
	}
	return c.JSON(order)
}

type discountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// HandleApplyDiscount sets the order's discount amount.
func (h *OrderHandler) HandleApplyDiscount(c *fiber.Ctx) error {
	var req discountRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	order, err := h.service.ApplyDiscount(c.Params("id"), req.Amount)
	if err != nil {
		return serviceError(c, h.log, "Could not apply discount", err)
	}
	return c.JSON(order)
}

// transition wraps a bodiless status change.
func (h *OrderHandler) transition(step func(string) (*models.Order, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := step(c.Params("id"))
		if err != nil {
			return serviceError(c, h.log, "Could not change order status", err)
		}
		return c.JSON(order)
	}
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

// HandleCancel cancels a pending or preparing order. The body is optional.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	var req cancelRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, h.validate, &req); !ok {
			return err
		}
	}
	order, err := h.service.CancelOrder(c.Params("id"), req.Reason)
	if err != nil {
		return serviceError(c, h.log, "Could not cancel order", err)
	}
	return c.JSON(order)
}

// HandlePreviewChange reports the change due for ?amount= without paying.
func (h *OrderHandler) HandlePreviewChange(c *fiber.Ctx) error {
	raw := c.Query("amount")
	if strings.TrimSpace(raw) == "" {
		return badRequest(c, "Query parameter amount is required", nil)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		amount = format.ParseVND(raw)
	}
	change, order, err := h.payments.PreviewChange(c.Params("id"), amount)
	if err != nil {
		return serviceError(c, h.log, "Could not compute change", err)
	}
	return c.JSON(fiber.Map{
		"order_id":         order.ID,
		"final_amount":     order.FinalAmount,
		"amount_received":  amount,
		"change":           change,
		"formatted_change": format.TotalAmount(change),
		"sufficient":       !change.IsNegative(),
	})
}
