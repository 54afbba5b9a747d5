package repositories

import (
	"errors"
	"fmt"

	"cafepos/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{db: db}
}

// GetAll retrieves all customers ordered by name.
func (r *GORMCustomerRepository) GetAll() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Order("full_name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, nil
}

// GetByID retrieves a customer by ID.
func (r *GORMCustomerRepository) GetByID(id string) (*models.Customer, error) {
	return r.first(r.db, "id", id)
}

// GetByPhone retrieves a customer by phone number.
func (r *GORMCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	return r.first(r.db, "phone", phone)
}

func (r *GORMCustomerRepository) first(db *gorm.DB, column, value string) (*models.Customer, error) {
	var customer models.Customer
	if err := db.First(&customer, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with %s %s: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by %s: %w", column, err)
	}
	return &customer, nil
}

// Create creates a new customer.
func (r *GORMCustomerRepository) Create(customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if err := r.db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update saves every field of an existing customer.
func (r *GORMCustomerRepository) Update(customer *models.Customer) error {
	res := r.db.Model(&models.Customer{}).Where("id = ?", customer.ID).Select("*").Omit("id", "created_at").Updates(customer)
	if res.Error != nil {
		return fmt.Errorf("failed to update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer with ID %s for update: %w", customer.ID, ErrNotFound)
	}
	return nil
}

// AddLoyalty adds to the customer's points and total spent inside a
// transaction holding the row lock.
func (r *GORMCustomerRepository) AddLoyalty(id string, points int, spent decimal.Decimal) (*models.Customer, error) {
	var updated *models.Customer
	err := r.db.Transaction(func(tx *gorm.DB) error {
		customer, err := r.first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), "id", id)
		if err != nil {
			return err
		}
		customer.LoyaltyPoints += points
		customer.TotalSpent = customer.TotalSpent.Add(spent)
		if err := tx.Model(customer).Select("loyalty_points", "total_spent", "updated_at").Updates(customer).Error; err != nil {
			return fmt.Errorf("failed to add loyalty points: %w", err)
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
