package handlers

import (
	"cafepos/internal/models"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PaymentHandler handles HTTP requests for settling orders.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "payment").Logger(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Get("/methods", h.HandleMethods)
	paymentRoutes.Post("/", h.HandlePay)
}

// HandleMethods lists the accepted payment methods with their labels.
func (h *PaymentHandler) HandleMethods(c *fiber.Ctx) error {
	methods := h.service.Methods()
	out := make([]fiber.Map, 0, len(methods))
	for _, m := range methods {
		out = append(out, fiber.Map{
			"code":                  m,
			"name":                  m.DisplayName(),
			"electronic":            m.Electronic(),
			"requires_verification": m.RequiresOnlineVerification(),
		})
	}
	return c.JSON(out)
}

// HandlePay records a payment against a completed order.
func (h *PaymentHandler) HandlePay(c *fiber.Ctx) error {
	var req models.PaymentRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	resp, err := h.service.ProcessPayment(req)
	if err != nil {
		status := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			return serviceError(c, h.log, "Payment failed", err)
		}
		return c.Status(status).JSON(models.PaymentResponse{
			Success: false,
			Message: err.Error(),
		})
	}
	return c.JSON(resp)
}
