package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cafepos/internal/models"
	"cafepos/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// One loyalty point per 10,000 VNĐ spent.
const pointValue = 10_000

// LoyaltyRecorder credits a paid order to a customer.
type LoyaltyRecorder interface {
	RecordPurchase(customerID string, amount decimal.Decimal) (points int, err error)
}

// CustomerService handles registered guests and their loyalty points.
type CustomerService struct {
	repo repositories.CustomerRepository
	log  zerolog.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, log zerolog.Logger) *CustomerService {
	return &CustomerService{
		repo: repo,
		log:  log.With().Str("component", "customer_service").Logger(),
	}
}

// GetAllCustomers lists every customer.
func (s *CustomerService) GetAllCustomers() ([]models.Customer, error) {
	return s.repo.GetAll()
}

// GetCustomer retrieves a customer by ID.
func (s *CustomerService) GetCustomer(id string) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	return customer, nil
}

// FindByPhone looks a customer up at the counter.
func (s *CustomerService) FindByPhone(phone string) (*models.Customer, error) {
	customer, err := s.repo.GetByPhone(strings.TrimSpace(phone))
	if err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	return customer, nil
}

// CreateCustomer registers a customer. Phone numbers are unique.
func (s *CustomerService) CreateCustomer(customer *models.Customer) error {
	customer.FullName = strings.TrimSpace(customer.FullName)
	customer.Phone = strings.TrimSpace(customer.Phone)
	if customer.FullName == "" || customer.Phone == "" {
		return fmt.Errorf("%w: name and phone are required", ErrInvalidCustomer)
	}
	if _, err := s.repo.GetByPhone(customer.Phone); err == nil {
		return fmt.Errorf("%w: %s", ErrPhoneTaken, customer.Phone)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	customer.LoyaltyPoints = 0
	customer.TotalSpent = decimal.Zero
	customer.IsActive = true
	if err := s.repo.Create(customer); err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	s.log.Info().Str("customer_id", customer.ID).Msg("customer registered")
	return nil
}

// AddLoyaltyPoints adjusts a customer's points by hand. The balance never
// drops below zero.
func (s *CustomerService) AddLoyaltyPoints(id string, points int) (*models.Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	if points == 0 || customer.LoyaltyPoints+points < 0 {
		return nil, fmt.Errorf("%w: cannot add %d points to a balance of %d", ErrInvalidCustomer, points, customer.LoyaltyPoints)
	}
	updated, err := s.repo.AddLoyalty(id, points, decimal.Zero)
	if err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	return updated, nil
}

// RecordPurchase earns one point per 10,000 VNĐ of amount and adds amount
// to the customer's total spent.
func (s *CustomerService) RecordPurchase(customerID string, amount decimal.Decimal) (int, error) {
	if !amount.IsPositive() {
		return 0, nil
	}
	points := int(amount.Div(decimal.NewFromInt(pointValue)).Floor().IntPart())
	customer, err := s.repo.AddLoyalty(customerID, points, amount)
	if err != nil {
		return 0, mapNotFound(err, ErrCustomerNotFound)
	}
	s.log.Info().
		Str("customer_id", customerID).
		Int("points", points).
		Int("balance", customer.LoyaltyPoints).
		Msg("loyalty points earned")
	return points, nil
}

// TopCustomers returns up to limit customers with the most points.
func (s *CustomerService) TopCustomers(limit int) ([]models.Customer, error) {
	customers, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].LoyaltyPoints > customers[j].LoyaltyPoints
	})
	if limit > 0 && len(customers) > limit {
		customers = customers[:limit]
	}
	return customers, nil
}
