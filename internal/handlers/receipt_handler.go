package handlers

import (
	"cafepos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ReceiptHandler serves printable receipts.
type ReceiptHandler struct {
	service *services.ReceiptService
	log     zerolog.Logger
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(service *services.ReceiptService, log zerolog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		service: service,
		log:     log.With().Str("handler", "receipt").Logger(),
	}
}

// RegisterRoutes registers the receipt route with the Fiber app.
func (h *ReceiptHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders/:id/receipt", h.HandleGetReceipt)
}

// HandleGetReceipt renders a paid order's receipt as plain text.
// ?format=thermal selects the narrow ASCII layout.
func (h *ReceiptHandler) HandleGetReceipt(c *fiber.Ctx) error {
	style, ok := services.ParseReceiptStyle(c.Query("format"))
	if !ok {
		return badRequest(c, "Unknown receipt format "+c.Query("format"), nil)
	}
	receipt, err := h.service.Receipt(c.Params("id"), style)
	if err != nil {
		return serviceError(c, h.log, "Could not render receipt", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(receipt)
}
