package handlers

import (
	"strings"

	"cafepos/internal/models"
	"cafepos/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CustomerHandler handles HTTP requests for registered customers.
type CustomerHandler struct {
	service  *services.CustomerService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.CustomerService, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "customer").Logger(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleGetCustomers)
	customerRoutes.Get("/top", h.HandleTopCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomer)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Post("/:id/points", h.HandleAddPoints)
}

// HandleGetCustomers lists customers, or looks one up with ?phone=.
func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	if phone := strings.TrimSpace(c.Query("phone")); phone != "" {
		customer, err := h.service.FindByPhone(phone)
		if err != nil {
			return serviceError(c, h.log, "Could not find customer", err)
		}
		return c.JSON(customer)
	}
	customers, err := h.service.GetAllCustomers()
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve customers", err)
	}
	return c.JSON(customers)
}

// HandleTopCustomers lists the customers with the most points, ?limit=
// defaulting to 10.
func (h *CustomerHandler) HandleTopCustomers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		return badRequest(c, "limit must be positive", nil)
	}
	customers, err := h.service.TopCustomers(limit)
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve customers", err)
	}
	return c.JSON(customers)
}

// HandleGetCustomer retrieves a single customer.
func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve customer", err)
	}
	return c.JSON(customer)
}

type createCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

// HandleCreateCustomer registers a customer.
func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var req createCustomerRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	customer := models.Customer{FullName: req.FullName, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := h.service.CreateCustomer(&customer); err != nil {
		return serviceError(c, h.log, "Could not register customer", err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

type addPointsRequest struct {
	Points int `json:"points" validate:"required"`
}

// HandleAddPoints adjusts a customer's loyalty points by hand.
func (h *CustomerHandler) HandleAddPoints(c *fiber.Ctx) error {
	var req addPointsRequest
	if ok, err := bindJSON(c, h.validate, &req); !ok {
		return err
	}
	customer, err := h.service.AddLoyaltyPoints(c.Params("id"), req.Points)
	if err != nil {
		return serviceError(c, h.log, "Could not update loyalty points", err)
	}
	return c.JSON(customer)
}
