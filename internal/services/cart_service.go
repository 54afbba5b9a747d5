package services

import (
	"context"
	"errors"
	"fmt"

	"cafepos/internal/format"
	"cafepos/internal/models"
	"cafepos/internal/pos"
	"cafepos/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartLineView is one cart line as shown on the terminal.
type CartLineView struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartView is a session cart priced with current menu data.
type CartView struct {
	SessionID      string          `json:"session_id"`
	Lines          []CartLineView  `json:"lines"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
}

// CartService keeps per-session carts between requests and turns them into
// orders at checkout.
type CartService struct {
	store    repositories.CartStore
	products repositories.ProductRepository
	orders   *OrderService
	log      zerolog.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.CartStore, products repositories.ProductRepository, orders *OrderService, log zerolog.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		orders:   orders,
		log:      log.With().Str("component", "cart_service").Logger(),
	}
}

// GetCart returns the session's cart. Lines whose product left the menu
// are dropped and quantities are clamped to current stock.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, cart), nil
}

// AddItem adds quantity of a product to the session's cart.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int, notes string) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.update(ctx, sessionID, func(cart *pos.Cart) error {
		product, err := s.products.GetByID(productID)
		if err != nil {
			return mapNotFound(err, ErrProductNotFound)
		}
		if !cart.AddProductToOrder(*product, quantity, notes) {
			return fmt.Errorf("%w: %s (in cart %d, requested %d, in stock %d)",
				ErrInsufficientStock, product.Name, cart.Quantity(product.ID), quantity, product.StockQuantity)
		}
		return nil
	})
}

// SetQuantity replaces a line's quantity, clamped to stock. Zero or less
// removes the line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	return s.update(ctx, sessionID, func(cart *pos.Cart) error {
		if quantity <= 0 {
			cart.RemoveItem(productID)
			return nil
		}
		product, err := s.products.GetByID(productID)
		if err != nil {
			return mapNotFound(err, ErrProductNotFound)
		}
		if !cart.SetQuantity(*product, quantity) {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		return nil
	})
}

// RemoveItem drops a product from the session's cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*CartView, error) {
	return s.update(ctx, sessionID, func(cart *pos.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// Checkout moves every cart line onto the table's open order, sends the
// order to the bar and empties the cart. Nothing is added when any line no
// longer fits the stock.
func (s *CartService) Checkout(ctx context.Context, sessionID, tableID, userID string) (*models.Order, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	opened, _, err := s.orders.OpenOrder(tableID, userID, nil)
	if err != nil {
		return nil, err
	}

	lc := s.orders.Lifecycle()
	order, err := s.orders.mutate(opened.ID, EventOrderStatusChanged, func(order *models.Order) error {
		if !lc.CanModifyOrder(order) {
			return fmt.Errorf("%w: order %s is already %s", ErrOrderNotEditable, order.OrderNumber, order.OrderStatus)
		}
		sink := lc.Sink(order)
		for _, line := range cart.Lines() {
			if !sink.AddProductToOrder(line.Product, line.Quantity, line.Notes) {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, line.Product.Name)
			}
		}
		return s.orders.step(order, lc.PlaceOrder)
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear cart after checkout")
	}
	s.log.Info().Str("session_id", sessionID).Str("order_id", order.ID).Int("lines", cart.Len()).Msg("cart checked out")
	return order, nil
}

func (s *CartService) update(ctx context.Context, sessionID string, fn func(*pos.Cart) error) (*CartView, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return s.view(sessionID, cart), nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (*pos.Cart, error) {
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart := pos.NewCart()
	for _, item := range items {
		product, err := s.products.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				s.log.Debug().Str("session_id", sessionID).Str("product_id", item.ProductID).Msg("dropping cart line for removed product")
				continue
			}
			return nil, err
		}
		if cart.SetQuantity(*product, item.Quantity) {
			cart.SetNotes(product.ID, item.Notes)
		}
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, sessionID string, cart *pos.Cart) error {
	lines := cart.Lines()
	items := make([]repositories.CartItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, repositories.CartItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
			Position:  i,
		})
	}
	return s.store.Save(ctx, sessionID, items)
}

func (s *CartService) view(sessionID string, cart *pos.Cart) *CartView {
	lines := cart.Lines()
	v := &CartView{
		SessionID:      sessionID,
		Lines:          make([]CartLineView, 0, len(lines)),
		Total:          cart.Total(),
		FormattedTotal: format.TotalAmount(cart.Total()),
	}
	for _, line := range lines {
		v.Lines = append(v.Lines, CartLineView{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			UnitPrice:   line.Product.Price,
			Quantity:    line.Quantity,
			Notes:       line.Notes,
			Subtotal:    line.Subtotal(),
		})
	}
	return v
}
