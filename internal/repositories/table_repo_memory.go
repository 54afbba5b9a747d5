package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cafepos/internal/models"

	"github.com/google/uuid"
)

// MemoryTableRepository is an in-memory implementation of TableRepository.
type MemoryTableRepository struct {
	tables map[string]models.Table
	mu     sync.RWMutex
}

// NewMemoryTableRepository creates a new instance of MemoryTableRepository.
func NewMemoryTableRepository() *MemoryTableRepository {
	return &MemoryTableRepository{
		tables: make(map[string]models.Table),
	}
}

// GetAll returns all tables sorted by name.
func (r *MemoryTableRepository) GetAll() ([]models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tableList := make([]models.Table, 0, len(r.tables))
	for _, t := range r.tables {
		tableList = append(tableList, t)
	}
	sort.Slice(tableList, func(i, j int) bool { return tableList[i].Name < tableList[j].Name })
	return tableList, nil
}

// GetByID returns a table by its ID.
func (r *MemoryTableRepository) GetByID(id string) (*models.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[id]
	if !ok {
		return nil, fmt.Errorf("table with ID %s: %w", id, ErrNotFound)
	}
	return &table, nil
}

// Create adds a new table. Names are unique.
func (r *MemoryTableRepository) Create(table *models.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tables {
		if t.Name == table.Name {
			return fmt.Errorf("table %s already exists", table.Name)
		}
	}
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	now := time.Now()
	table.CreatedAt = now
	table.UpdatedAt = now
	r.tables[table.ID] = *table
	return nil
}

// UpdateStatus sets the floor status of a table.
func (r *MemoryTableRepository) UpdateStatus(id string, status models.TableStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.tables[id]
	if !ok {
		return fmt.Errorf("table with ID %s for status update: %w", id, ErrNotFound)
	}
	table.Status = status
	table.UpdatedAt = time.Now()
	r.tables[id] = table
	return nil
}
