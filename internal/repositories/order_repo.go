package repositories

import (
	"time"

	"cafepos/internal/models"
)

// OrderRepository defines the interface for order data access. An order is
// always loaded and saved together with its details.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	FindByStatus(status models.OrderStatus) ([]models.Order, error)
	// FindActiveByTable returns the newest order for the table whose status
	// is one of statuses, or an ErrNotFound error.
	FindActiveByTable(tableID string, statuses []models.OrderStatus) (*models.Order, error)
	FindByTable(tableID string) ([]models.Order, error)
	FindByUser(userID string) ([]models.Order, error)
	// FindByDateRange returns orders placed in [from, to).
	FindByDateRange(from, to time.Time) ([]models.Order, error)
}
