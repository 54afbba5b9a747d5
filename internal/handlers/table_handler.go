package handlers

import (
	"cafepos/internal/models"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// TableHandler handles HTTP requests for the café floor.
type TableHandler struct {
	service  *services.TableService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(service *services.TableService, log zerolog.Logger) *TableHandler {
	return &TableHandler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "table").Logger(),
	}
}

// RegisterRoutes registers the table routes with the Fiber app.
func (h *TableHandler) RegisterRoutes(router fiber.Router) {
	tableRoutes := router.Group("/tables")
	tableRoutes.Get("/", h.HandleGetTables)
	tableRoutes.Get("/:id", h.HandleGetTable)
	tableRoutes.Post("/", h.HandleCreateTable)
	tableRoutes.Patch("/:id/status", h.HandleUpdateStatus)
}

// HandleGetTables lists every table.
func (h *TableHandler) HandleGetTables(c *fiber.Ctx) error {
	tables, err := h.service.GetAllTables()
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve tables", err)
	}
	return c.JSON(tables)
}

// HandleGetTable retrieves a single table.
func (h *TableHandler) HandleGetTable(c *fiber.Ctx) error {
	table, err := h.service.GetTable(c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve table", err)
	}
	return c.JSON(table)
}

// HandleCreateTable adds a table.
func (h *TableHandler) HandleCreateTable(c *fiber.Ctx) error {
	table := models.Table{IsActive: true}
	if ok, err := bindJSON(c, h.validate, &table); !ok {
		return err
	}
	if err := h.service.CreateTable(&table); err != nil {
		return serviceError(c, h.log, "Could not create table", err)
	}
	return c.Status(fiber.StatusCreated).JSON(table)
}

type tableStatusRequest struct {
	Status models.TableStatus `json:"status" validate:"required"`
}

// HandleUpdateStatus sets a table's floor status.
func (h *TableHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req tableStatusRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	table, err := h.service.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return serviceError(c, h.log, "Could not update table status", err)
	}
	return c.JSON(table)
}
