package repositories

import "cafepos/internal/models"

// TableRepository defines the interface for café table data access.
type TableRepository interface {
	GetAll() ([]models.Table, error)
	GetByID(id string) (*models.Table, error)
	Create(table *models.Table) error
	UpdateStatus(id string, status models.TableStatus) error
}
