package services

import (
	"fmt"
	"strings"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
)

// TableService manages the café floor.
type TableService struct {
	repo repositories.TableRepository
}

// NewTableService creates a new TableService.
func NewTableService(repo repositories.TableRepository) *TableService {
	return &TableService{repo: repo}
}

// GetAllTables retrieves every table.
func (s *TableService) GetAllTables() ([]models.Table, error) {
	return s.repo.GetAll()
}

// GetTable retrieves a table by ID.
func (s *TableService) GetTable(id string) (*models.Table, error) {
	table, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrTableNotFound)
	}
	return table, nil
}

// CreateTable adds a table. New tables start available.
func (s *TableService) CreateTable(table *models.Table) error {
	table.Name = strings.TrimSpace(table.Name)
	if table.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTable)
	}
	if table.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidTable)
	}
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if !table.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTable, table.Status)
	}
	return s.repo.Create(table)
}

// UpdateStatus sets a table's floor status.
func (s *TableService) UpdateStatus(id string, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTable, status)
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return nil, mapNotFound(err, ErrTableNotFound)
	}
	return s.GetTable(id)
}
