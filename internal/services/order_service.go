package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cafepos/internal/models"
	"cafepos/internal/pos"
	"cafepos/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderService handles business logic related to orders. It loads an order,
// runs one lifecycle step on it and saves it back, serialising those steps
// so two terminals cannot interleave edits.
type OrderService struct {
	orders    repositories.OrderRepository
	products  repositories.ProductRepository
	tables    repositories.TableRepository
	lifecycle *pos.Lifecycle
	publisher EventPublisher
	log       zerolog.Logger
	mu        sync.Mutex
}

// NewOrderService creates a new OrderService. tables and publisher may be nil.
func NewOrderService(
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	tables repositories.TableRepository,
	lifecycle *pos.Lifecycle,
	publisher EventPublisher,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		tables:    tables,
		lifecycle: lifecycle,
		publisher: publisher,
		log:       log.With().Str("component", "order_service").Logger(),
	}
}

// Lifecycle exposes the order state machine the service drives.
func (s *OrderService) Lifecycle() *pos.Lifecycle { return s.lifecycle }

// OpenOrder returns the table's active order, or opens a new one and marks
// the table occupied. created reports which of the two happened.
func (s *OrderService) OpenOrder(tableID, userID string, customerID *string) (order *models.Order, created bool, err error) {
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return nil, false, fmt.Errorf("%w: table is required", ErrInvalidOrder)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables != nil {
		table, err := s.tables.GetByID(tableID)
		if err != nil {
			return nil, false, mapNotFound(err, ErrTableNotFound)
		}
		if !table.IsActive {
			return nil, false, fmt.Errorf("%w: table %s is not in service", ErrInvalidTable, table.Name)
		}
	}

	existing, err := s.orders.FindActiveByTable(tableID, pos.ActiveStatuses)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	order = s.lifecycle.CreateOrder(tableID, userID, customerID)
	if order == nil {
		return nil, false, ErrInvalidOrder
	}
	if err := s.orders.Create(order); err != nil {
		return nil, false, fmt.Errorf("failed to save new order: %w", err)
	}
	s.setTableStatus(tableID, models.TableStatusOccupied)

	s.log.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).Str("table_id", tableID).Msg("order opened")
	publish(s.publisher, s.log, EventOrderCreated, order, order.CreatedAt)
	return order, true, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}
	return order, nil
}

// OrderFilter narrows ListOrders. Empty fields match everything; when both
// From and To are set only orders placed in [From, To) are returned.
type OrderFilter struct {
	Status  models.OrderStatus
	TableID string
	UserID  string
	From    time.Time
	To      time.Time
}

// ListOrders retrieves orders matching filter, oldest first.
func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, error) {
	var (
		orders []models.Order
		err    error
	)
	switch {
	case !filter.From.IsZero() && !filter.To.IsZero():
		orders, err = s.orders.FindByDateRange(filter.From, filter.To)
	case filter.TableID != "":
		orders, err = s.orders.FindByTable(filter.TableID)
	case filter.UserID != "":
		orders, err = s.orders.FindByUser(filter.UserID)
	case filter.Status != "":
		orders, err = s.orders.FindByStatus(filter.Status)
	default:
		orders, err = s.orders.GetAll()
	}
	if err != nil {
		return nil, err
	}

	filtered := orders[:0]
	for _, o := range orders {
		if filter.Status != "" && o.OrderStatus != filter.Status {
			continue
		}
		if filter.TableID != "" && o.TableID != filter.TableID {
			continue
		}
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered, nil
}

// AddItem adds quantity of a product to a pending order.
func (s *OrderService) AddItem(orderID, productID string, quantity int, notes string) (*models.Order, error) {
	return s.mutate(orderID, "", func(order *models.Order) error {
		if quantity <= 0 {
			return ErrInvalidQuantity
		}
		if !s.lifecycle.CanModifyOrder(order) {
			return ErrOrderNotEditable
		}
		product, err := s.products.GetByID(productID)
		if err != nil {
			return mapNotFound(err, ErrProductNotFound)
		}
		if !s.lifecycle.AddProductToOrder(order, *product, quantity, notes) {
			return fmt.Errorf("%w: %s (requested %d, in stock %d)", ErrInsufficientStock, product.Name, quantity, product.StockQuantity)
		}
		return nil
	})
}

// RemoveItem drops a product's line from a pending order.
func (s *OrderService) RemoveItem(orderID, productID string) (*models.Order, error) {
	return s.mutate(orderID, "", func(order *models.Order) error {
		if !s.lifecycle.CanModifyOrder(order) {
			return ErrOrderNotEditable
		}
		if !s.lifecycle.RemoveProductFromOrder(order, productID) {
			return ErrLineNotFound
		}
		return nil
	})
}

// UpdateItemQuantity sets the quantity of a line. Zero removes it.
func (s *OrderService) UpdateItemQuantity(orderID, productID string, quantity int) (*models.Order, error) {
	return s.mutate(orderID, "", func(order *models.Order) error {
		if quantity < 0 {
			return ErrInvalidQuantity
		}
		if !s.lifecycle.CanModifyOrder(order) {
			return ErrOrderNotEditable
		}
		if !hasLine(order, productID) {
			return ErrLineNotFound
		}
		if quantity == 0 {
			s.lifecycle.RemoveProductFromOrder(order, productID)
			return nil
		}
		product, err := s.products.GetByID(productID)
		if err != nil {
			return mapNotFound(err, ErrProductNotFound)
		}
		if !s.lifecycle.UpdateProductQuantity(order, *product, quantity) {
			return fmt.Errorf("%w: %s (requested %d, in stock %d)", ErrInsufficientStock, product.Name, quantity, product.StockQuantity)
		}
		return nil
	})
}

// ApplyDiscount sets the order's discount amount.
func (s *OrderService) ApplyDiscount(orderID string, amount decimal.Decimal) (*models.Order, error) {
	return s.mutate(orderID, "", func(order *models.Order) error {
		if s.lifecycle.ApplyDiscount(order, amount) {
			return nil
		}
		if order.PaymentStatus != models.PaymentStatusPending || order.OrderStatus == models.OrderStatusCancelled {
			return ErrOrderNotEditable
		}
		return ErrInvalidDiscount
	})
}

// PlaceOrder sends a pending order to the bar.
func (s *OrderService) PlaceOrder(orderID string) (*models.Order, error) {
	return s.mutate(orderID, EventOrderStatusChanged, func(order *models.Order) error {
		if len(order.Details) == 0 {
			return ErrEmptyOrder
		}
		return s.step(order, s.lifecycle.PlaceOrder)
	})
}

// MarkReady records that the bar has finished the order.
func (s *OrderService) MarkReady(orderID string) (*models.Order, error) {
	return s.mutate(orderID, EventOrderStatusChanged, func(order *models.Order) error {
		return s.step(order, s.lifecycle.MarkReady)
	})
}

// ServeOrder records that the order reached the table.
func (s *OrderService) ServeOrder(orderID string) (*models.Order, error) {
	return s.mutate(orderID, EventOrderStatusChanged, func(order *models.Order) error {
		return s.step(order, s.lifecycle.MarkAsServed)
	})
}

// CompleteOrder closes a served order so it can be paid.
func (s *OrderService) CompleteOrder(orderID string) (*models.Order, error) {
	return s.mutate(orderID, EventOrderStatusChanged, func(order *models.Order) error {
		return s.step(order, s.lifecycle.CompleteOrder)
	})
}

// CancelOrder cancels a pending or preparing order and frees its table.
func (s *OrderService) CancelOrder(orderID, reason string) (*models.Order, error) {
	order, err := s.mutate(orderID, EventOrderStatusChanged, func(order *models.Order) error {
		return s.step(order, func(o *models.Order) bool {
			return s.lifecycle.CancelOrder(o, reason)
		})
	})
	if err != nil {
		return nil, err
	}
	s.setTableStatus(order.TableID, models.TableStatusAvailable)
	return order, nil
}

func (s *OrderService) step(order *models.Order, fn func(*models.Order) bool) error {
	from := order.OrderStatus
	if !fn(order) {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, order.OrderNumber, from)
	}
	s.log.Info().Str("order_id", order.ID).Str("from", string(from)).Str("to", string(order.OrderStatus)).Msg("order status changed")
	return nil
}

// mutate loads the order, applies fn to a copy and saves it when fn
// succeeds. A failed fn leaves the stored order untouched.
func (s *OrderService) mutate(orderID, event string, fn func(*models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	if event != "" {
		publish(s.publisher, s.log, event, order, order.UpdatedAt)
	}
	return order, nil
}

func (s *OrderService) setTableStatus(tableID string, status models.TableStatus) {
	if s.tables == nil {
		return
	}
	if err := s.tables.UpdateStatus(tableID, status); err != nil {
		s.log.Warn().Err(err).Str("table_id", tableID).Str("status", string(status)).Msg("failed to update table status")
	}
}

func hasLine(order *models.Order, productID string) bool {
	for _, d := range order.Details {
		if d.ProductID == productID {
			return true
		}
	}
	return false
}
