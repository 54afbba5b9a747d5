package repositories

import (
	"cafepos/internal/models"

	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	GetAll() ([]models.Customer, error)
	GetByID(id string) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	// AddLoyalty adds points and spent to the customer's running totals in
	// one step.
	AddLoyalty(id string, points int, spent decimal.Decimal) (*models.Customer, error)
}
