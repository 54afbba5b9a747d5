package repositories

import (
	"errors"
	"fmt"

	"cafepos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new instance of GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

// GetAll retrieves all promotions ordered by name.
func (r *GORMPromotionRepository) GetAll() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.Order("name").Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}
	return promotions, nil
}

// GetByID retrieves a single promotion by its ID.
func (r *GORMPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.First(&promotion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("promotion with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get promotion by ID %s: %w", id, err)
	}
	return &promotion, nil
}

// Create creates a new promotion.
func (r *GORMPromotionRepository) Create(promotion *models.Promotion) error {
	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if err := r.db.Create(promotion).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

// Update saves every field of an existing promotion.
func (r *GORMPromotionRepository) Update(promotion *models.Promotion) error {
	res := r.db.Model(&models.Promotion{}).Where("id = ?", promotion.ID).Select("*").Omit("id", "created_at").Updates(promotion)
	if res.Error != nil {
		return fmt.Errorf("failed to update promotion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("promotion with ID %s for update: %w", promotion.ID, ErrNotFound)
	}
	return nil
}
