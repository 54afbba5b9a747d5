package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cafepos/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// It stores copies, so callers never share an order with the repository.
type MemoryOrderRepository struct {
	orders map[string]*models.Order
	mu     sync.RWMutex
	seq    uint
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]*models.Order),
	}
}

// GetAll returns all orders, oldest first.
func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	return r.filter(func(*models.Order) bool { return true }), nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return order.Clone(), nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order with ID %s already exists", order.ID)
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.assignDetailIDs(order)
	r.orders[order.ID] = order.Clone()
	return nil
}

// Update replaces a stored order.
func (r *MemoryOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order with ID %s for update: %w", order.ID, ErrNotFound)
	}
	order.UpdatedAt = time.Now()
	r.assignDetailIDs(order)
	r.orders[order.ID] = order.Clone()
	return nil
}

// FindByStatus returns orders in the given status.
func (r *MemoryOrderRepository) FindByStatus(status models.OrderStatus) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.OrderStatus == status }), nil
}

// FindActiveByTable returns the newest order of the table in one of statuses.
func (r *MemoryOrderRepository) FindActiveByTable(tableID string, statuses []models.OrderStatus) (*models.Order, error) {
	matches := r.filter(func(o *models.Order) bool {
		if o.TableID != tableID {
			return false
		}
		for _, s := range statuses {
			if o.OrderStatus == s {
				return true
			}
		}
		return false
	})
	if len(matches) == 0 {
		return nil, fmt.Errorf("active order for table %s: %w", tableID, ErrNotFound)
	}
	return &matches[len(matches)-1], nil
}

// FindByTable returns every order opened on the table.
func (r *MemoryOrderRepository) FindByTable(tableID string) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.TableID == tableID }), nil
}

// FindByUser returns every order taken by the staff member.
func (r *MemoryOrderRepository) FindByUser(userID string) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool { return o.UserID == userID }), nil
}

// FindByDateRange returns orders placed in [from, to).
func (r *MemoryOrderRepository) FindByDateRange(from, to time.Time) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool {
		return !o.OrderedAt.Before(from) && o.OrderedAt.Before(to)
	}), nil
}

func (r *MemoryOrderRepository) filter(keep func(*models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			orderList = append(orderList, *o.Clone())
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		if orderList[i].OrderedAt.Equal(orderList[j].OrderedAt) {
			return orderList[i].OrderNumber < orderList[j].OrderNumber
		}
		return orderList[i].OrderedAt.Before(orderList[j].OrderedAt)
	})
	return orderList
}

// assignDetailIDs numbers new lines the way an auto-increment column would.
// Callers hold the write lock.
func (r *MemoryOrderRepository) assignDetailIDs(order *models.Order) {
	for i := range order.Details {
		order.Details[i].OrderID = order.ID
		if order.Details[i].ID == 0 {
			r.seq++
			order.Details[i].ID = r.seq
		}
	}
}
