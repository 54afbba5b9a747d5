package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cafepos/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type MemoryCustomerRepository struct {
	customers map[string]models.Customer
	mu        sync.RWMutex
}

// NewMemoryCustomerRepository creates a new instance of MemoryCustomerRepository.
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[string]models.Customer),
	}
}

// GetAll returns all customers sorted by name.
func (r *MemoryCustomerRepository) GetAll() ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FullName < list[j].FullName })
	return list, nil
}

// GetByID returns a customer by ID.
func (r *MemoryCustomerRepository) GetByID(id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return &customer, nil
}

// GetByPhone returns a customer by phone number.
func (r *MemoryCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.Phone == phone {
			customer := c
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("customer with phone %s: %w", phone, ErrNotFound)
}

// Create adds a new customer. Phone numbers are unique.
func (r *MemoryCustomerRepository) Create(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.customers {
		if c.Phone == customer.Phone {
			return fmt.Errorf("customer with phone %s already exists", customer.Phone)
		}
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now()
	customer.CreatedAt, customer.UpdatedAt = now, now
	r.customers[customer.ID] = *customer
	return nil
}

// Update modifies an existing customer.
func (r *MemoryCustomerRepository) Update(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.customers[customer.ID]
	if !ok {
		return fmt.Errorf("customer with ID %s for update: %w", customer.ID, ErrNotFound)
	}
	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = *customer
	return nil
}

// AddLoyalty adds to the customer's points and total spent.
func (r *MemoryCustomerRepository) AddLoyalty(id string, points int, spent decimal.Decimal) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	customer.LoyaltyPoints += points
	customer.TotalSpent = customer.TotalSpent.Add(spent)
	customer.UpdatedAt = time.Now()
	r.customers[id] = customer
	return &customer, nil
}
