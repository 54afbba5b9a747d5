package handlers

import (
	"time"

	"cafepos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ReportHandler serves sales statistics.
type ReportHandler struct {
	service *services.ReportService
	log     zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *services.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With().Str("handler", "report").Logger(),
	}
}

// RegisterRoutes registers the report routes with the Fiber app. guards
// run before every report route.
func (h *ReportHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	reportRoutes := router.Group("/reports", guards...)
	reportRoutes.Get("/orders", h.HandleOrderReport)
}

// HandleOrderReport summarises orders placed between ?from= and ?to=
// (dd/MM/yyyy, inclusive, default today). ?top= limits the best sellers.
func (h *ReportHandler) HandleOrderReport(c *fiber.Ctx) error {
	from, to, err := dateRange(c, time.Now())
	if err != nil {
		return badRequest(c, "Invalid date range", err)
	}
	report, err := h.service.OrderStatistics(from, to, c.QueryInt("top", 5))
	if err != nil {
		return serviceError(c, h.log, "Could not build report", err)
	}
	return c.JSON(report)
}
