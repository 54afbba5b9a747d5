package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"cafepos/internal/format"
	"cafepos/internal/models"
	"cafepos/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PromotionService manages discount rules and applies them to orders.
type PromotionService struct {
	repo   repositories.PromotionRepository
	orders *OrderService
	now    func() time.Time
	log    zerolog.Logger
	mu     sync.Mutex
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(repo repositories.PromotionRepository, orders *OrderService, log zerolog.Logger) *PromotionService {
	return &PromotionService{
		repo:   repo,
		orders: orders,
		now:    time.Now,
		log:    log.With().Str("component", "promotion_service").Logger(),
	}
}

// GetAllPromotions lists every promotion, used up or not.
func (s *PromotionService) GetAllPromotions() ([]models.Promotion, error) {
	return s.repo.GetAll()
}

// ActivePromotions lists the promotions usable right now.
func (s *PromotionService) ActivePromotions() ([]models.Promotion, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := make([]models.Promotion, 0, len(all))
	for _, p := range all {
		if p.Usable(now) {
			active = append(active, p)
		}
	}
	return active, nil
}

// ApplicablePromotions lists the usable promotions whose minimum order
// amount is covered by amount.
func (s *PromotionService) ApplicablePromotions(amount decimal.Decimal) ([]models.Promotion, error) {
	active, err := s.ActivePromotions()
	if err != nil {
		return nil, err
	}
	now := s.now()
	applicable := active[:0]
	for _, p := range active {
		if p.CanApply(amount, now) {
			applicable = append(applicable, p)
		}
	}
	return applicable, nil
}

// GetPromotion retrieves a single promotion.
func (s *PromotionService) GetPromotion(id string) (*models.Promotion, error) {
	promotion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrPromotionNotFound)
	}
	return promotion, nil
}

// CreatePromotion validates and stores a new, active promotion.
func (s *PromotionService) CreatePromotion(promotion *models.Promotion) error {
	if err := validatePromotion(promotion); err != nil {
		return err
	}
	promotion.IsActive = true
	promotion.UsageCount = 0
	if err := s.repo.Create(promotion); err != nil {
		return err
	}
	s.log.Info().Str("promotion_id", promotion.ID).Str("name", promotion.Name).Msg("promotion created")
	return nil
}

// DeactivatePromotion switches a promotion off without deleting it.
func (s *PromotionService) DeactivatePromotion(id string) (*models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promotion, err := s.GetPromotion(id)
	if err != nil {
		return nil, err
	}
	promotion.IsActive = false
	if err := s.repo.Update(promotion); err != nil {
		return nil, err
	}
	s.log.Info().Str("promotion_id", id).Msg("promotion deactivated")
	return promotion, nil
}

// ApplyToOrder sets the order's discount to what the promotion grants on
// its current total and counts one use of the promotion. A promotion
// already recorded on the order is replaced.
func (s *PromotionService) ApplyToOrder(orderID, promotionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promotion, err := s.GetPromotion(promotionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	lc := s.orders.Lifecycle()
	order, err := s.orders.mutate(orderID, "", func(order *models.Order) error {
		discount := promotion.DiscountFor(order.TotalAmount, now)
		if discount.IsZero() {
			return fmt.Errorf("%w: %s (minimum order %s)", ErrPromotionNotUsable,
				promotion.Name, format.TotalAmount(promotion.MinOrderAmount))
		}
		if !lc.ApplyDiscount(order, discount) {
			return ErrOrderNotEditable
		}
		id := promotion.ID
		order.PromotionID = &id
		return nil
	})
	if err != nil {
		return nil, err
	}

	promotion.UsageCount++
	if err := s.repo.Update(promotion); err != nil {
		s.log.Warn().Err(err).Str("promotion_id", promotion.ID).Msg("failed to record promotion usage")
	}
	s.log.Info().
		Str("order_id", order.ID).
		Str("promotion_id", promotion.ID).
		Str("discount", order.DiscountAmount.String()).
		Msg("promotion applied")
	return order, nil
}

func validatePromotion(p *models.Promotion) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPromotion)
	}
	if !p.DiscountType.Valid() {
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidPromotion, p.DiscountType)
	}
	if !p.DiscountValue.IsPositive() {
		return fmt.Errorf("%w: discount value must be positive", ErrInvalidPromotion)
	}
	if p.DiscountType == models.DiscountPercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage above 100", ErrInvalidPromotion)
	}
	if p.MinOrderAmount.IsNegative() || p.MaxUsage < 0 {
		return fmt.Errorf("%w: minimum amount and usage limit must not be negative", ErrInvalidPromotion)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("%w: ends before it starts", ErrInvalidPromotion)
	}
	return nil
}
