package repositories

import (
	"errors"
	"fmt"
	"time"

	"cafepos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withDetails() *gorm.DB {
	return r.db.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

// GetAll retrieves all orders, oldest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.withDetails().Order("ordered_at, order_number").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order and its details.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails().First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts the order and its details in one transaction.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Details {
		order.Details[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update saves the order header and reconciles its details: lines no longer
// on the order are deleted, new ones inserted, the rest updated.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("order with ID %s for update: %w", order.ID, ErrNotFound)
		}
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(order.Details))
		for _, d := range order.Details {
			if d.ID != 0 {
				keep = append(keep, d.ID)
			}
		}
		del := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}

		for i := range order.Details {
			d := &order.Details[i]
			d.OrderID = order.ID
			if d.ID == 0 {
				if err := tx.Create(d).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Save(d).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	return nil
}

// FindByStatus retrieves orders in the given status.
func (r *GORMOrderRepository) FindByStatus(status models.OrderStatus) ([]models.Order, error) {
	return r.find("order_status = ?", status)
}

// FindActiveByTable retrieves the newest order of the table in one of statuses.
func (r *GORMOrderRepository) FindActiveByTable(tableID string, statuses []models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.withDetails().
		Where("table_id = ? AND order_status IN ?", tableID, statuses).
		Order("ordered_at DESC, order_number DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active order for table %s: %w", tableID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active order for table %s: %w", tableID, err)
	}
	return &order, nil
}

// FindByTable retrieves every order opened on the table.
func (r *GORMOrderRepository) FindByTable(tableID string) ([]models.Order, error) {
	return r.find("table_id = ?", tableID)
}

// FindByUser retrieves every order taken by the staff member.
func (r *GORMOrderRepository) FindByUser(userID string) ([]models.Order, error) {
	return r.find("user_id = ?", userID)
}

// FindByDateRange retrieves orders placed in [from, to).
func (r *GORMOrderRepository) FindByDateRange(from, to time.Time) ([]models.Order, error) {
	return r.find("ordered_at >= ? AND ordered_at < ?", from, to)
}

func (r *GORMOrderRepository) find(query string, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withDetails().Where(query, args...).Order("ordered_at, order_number").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}
