package repositories

import (
	"cafepos/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	// Search filters by exact category and a case-insensitive keyword on
	// the name; empty arguments match everything.
	Search(category, keyword string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
