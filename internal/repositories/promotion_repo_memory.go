package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cafepos/internal/models"

	"github.com/google/uuid"
)

// MemoryPromotionRepository is an in-memory implementation of PromotionRepository.
type MemoryPromotionRepository struct {
	promotions map[string]models.Promotion
	mu         sync.RWMutex
}

// NewMemoryPromotionRepository creates a new instance of MemoryPromotionRepository.
func NewMemoryPromotionRepository() *MemoryPromotionRepository {
	return &MemoryPromotionRepository{
		promotions: make(map[string]models.Promotion),
	}
}

// GetAll returns all promotions sorted by name.
func (r *MemoryPromotionRepository) GetAll() ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Promotion, 0, len(r.promotions))
	for _, p := range r.promotions {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// GetByID returns a promotion by its ID.
func (r *MemoryPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotion, ok := r.promotions[id]
	if !ok {
		return nil, fmt.Errorf("promotion with ID %s: %w", id, ErrNotFound)
	}
	return &promotion, nil
}

// Create adds a new promotion.
func (r *MemoryPromotionRepository) Create(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if _, exists := r.promotions[promotion.ID]; exists {
		return fmt.Errorf("promotion with ID %s already exists", promotion.ID)
	}
	now := time.Now()
	promotion.CreatedAt, promotion.UpdatedAt = now, now
	r.promotions[promotion.ID] = *promotion
	return nil
}

// Update modifies an existing promotion.
func (r *MemoryPromotionRepository) Update(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.promotions[promotion.ID]
	if !ok {
		return fmt.Errorf("promotion with ID %s for update: %w", promotion.ID, ErrNotFound)
	}
	promotion.CreatedAt = existing.CreatedAt
	promotion.UpdatedAt = time.Now()
	r.promotions[promotion.ID] = *promotion
	return nil
}
