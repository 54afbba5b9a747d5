package repositories

import (
	"errors"
	"fmt"

	"cafepos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTableRepository is a GORM implementation of TableRepository.
type GORMTableRepository struct {
	db *gorm.DB
}

// NewGORMTableRepository creates a new instance of GORMTableRepository.
func NewGORMTableRepository(db *gorm.DB) *GORMTableRepository {
	return &GORMTableRepository{db: db}
}

// GetAll retrieves all tables sorted by name.
func (r *GORMTableRepository) GetAll() ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.Order("name").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tables: %w", err)
	}
	return tables, nil
}

// GetByID retrieves a table by its ID.
func (r *GORMTableRepository) GetByID(id string) (*models.Table, error) {
	var table models.Table
	if err := r.db.First(&table, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("table with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get table by ID %s: %w", id, err)
	}
	return &table, nil
}

// Create inserts a new table.
func (r *GORMTableRepository) Create(table *models.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	if err := r.db.Create(table).Error; err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// UpdateStatus sets the floor status of a table.
func (r *GORMTableRepository) UpdateStatus(id string, status models.TableStatus) error {
	result := r.db.Model(&models.Table{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update table status for ID %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("table with ID %s for status update: %w", id, ErrNotFound)
	}
	return nil
}
