// Package pos is the order and cart core of the point of sale. It holds no
// storage or transport: every operation mutates the value it is handed and
// reports failure with false (or a nil order), leaving that value unchanged.
package pos

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cafepos/internal/format"
	"cafepos/internal/models"
)

var (
	maxTaxPercent = decimal.NewFromInt(30)
	hundred       = decimal.NewFromInt(100)
)

// ActiveStatuses are the order statuses that keep a table occupied.
var ActiveStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
	models.OrderStatusServed,
}

// Options configures a Lifecycle.
type Options struct {
	// TaxPercent is added on top of the discounted total. Zero disables tax.
	TaxPercent decimal.Decimal
	// Now defaults to time.Now.
	Now func() time.Time
	// OrderNumbers defaults to a generator on the same clock.
	OrderNumbers *format.OrderNumberGenerator
}

// Lifecycle drives orders through
// pending → preparing → ready → served → completed, with cancellation
// allowed from pending or preparing, and payment once completed.
type Lifecycle struct {
	taxPercent decimal.Decimal
	now        func() time.Time
	numbers    *format.OrderNumberGenerator
}

// NewLifecycle builds a Lifecycle. Tax rates outside 0–30% are clamped.
func NewLifecycle(opts Options) *Lifecycle {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	numbers := opts.OrderNumbers
	if numbers == nil {
		numbers = format.NewOrderNumberGenerator(now)
	}
	tax := opts.TaxPercent
	if tax.IsNegative() {
		tax = decimal.Zero
	}
	if tax.GreaterThan(maxTaxPercent) {
		tax = maxTaxPercent
	}
	return &Lifecycle{taxPercent: tax, now: now, numbers: numbers}
}

// TaxPercent returns the VAT rate applied to new orders.
func (lc *Lifecycle) TaxPercent() decimal.Decimal { return lc.taxPercent }

// CreateOrder opens a new order for a table. It returns nil when tableID is
// empty. customerID may be nil for walk-in guests.
func (lc *Lifecycle) CreateOrder(tableID, userID string, customerID *string) *models.Order {
	if strings.TrimSpace(tableID) == "" {
		return nil
	}
	now := lc.now()
	return &models.Order{
		ID:             uuid.New().String(),
		OrderNumber:    lc.numbers.Next(),
		TableID:        tableID,
		UserID:         userID,
		CustomerID:     customerID,
		OrderedAt:      now,
		OrderStatus:    models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		TotalAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxPercent:     lc.taxPercent,
		FinalAmount:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddProductToOrder adds quantity of product to a pending order, merging
// into an existing line for the same product. It fails when quantity is not
// positive, the order is not pending, the product is not for sale, or the
// merged quantity would exceed stock.
func (lc *Lifecycle) AddProductToOrder(order *models.Order, product models.Product, quantity int, notes string) bool {
	if order == nil || quantity <= 0 || !lc.CanModifyOrder(order) {
		return false
	}
	if product.ID == "" || product.Price.IsNegative() {
		return false
	}
	idx := lineIndex(order, product.ID)
	merged := quantity
	if idx >= 0 {
		merged += order.Details[idx].Quantity
	}
	if !product.CanOrder(merged) {
		return false
	}

	now := lc.now()
	if idx >= 0 {
		line := &order.Details[idx]
		line.Quantity = merged
		line.Notes = mergeNotes(line.Notes, notes)
	} else {
		order.Details = append(order.Details, models.OrderDetail{
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			Notes:       strings.TrimSpace(notes),
			CreatedAt:   now,
		})
	}
	lc.recalculate(order, now)
	return true
}

// RemoveProductFromOrder drops the product's line from a pending order.
func (lc *Lifecycle) RemoveProductFromOrder(order *models.Order, productID string) bool {
	if !lc.CanModifyOrder(order) {
		return false
	}
	idx := lineIndex(order, productID)
	if idx < 0 {
		return false
	}
	order.Details = append(order.Details[:idx:idx], order.Details[idx+1:]...)
	lc.recalculate(order, lc.now())
	return true
}

// UpdateProductQuantity replaces the quantity of an existing line. Zero
// removes the line; negative quantities and quantities above stock fail.
func (lc *Lifecycle) UpdateProductQuantity(order *models.Order, product models.Product, quantity int) bool {
	if quantity < 0 || !lc.CanModifyOrder(order) {
		return false
	}
	if quantity == 0 {
		return lc.RemoveProductFromOrder(order, product.ID)
	}
	idx := lineIndex(order, product.ID)
	if idx < 0 || !product.CanOrder(quantity) {
		return false
	}
	order.Details[idx].Quantity = quantity
	lc.recalculate(order, lc.now())
	return true
}

// ApplyDiscount sets the order's discount. It is allowed until the order is
// paid or cancelled, and must lie within [0, totalAmount].
func (lc *Lifecycle) ApplyDiscount(order *models.Order, amount decimal.Decimal) bool {
	if order == nil || amount.IsNegative() || amount.GreaterThan(order.TotalAmount) {
		return false
	}
	if order.PaymentStatus != models.PaymentStatusPending || order.OrderStatus == models.OrderStatusCancelled {
		return false
	}
	order.DiscountAmount = amount
	lc.recalculate(order, lc.now())
	return true
}

// PlaceOrder sends a pending order with at least one line to the kitchen.
func (lc *Lifecycle) PlaceOrder(order *models.Order) bool {
	if order == nil || len(order.Details) == 0 {
		return false
	}
	return lc.transition(order, models.OrderStatusPreparing, models.OrderStatusPending)
}

// MarkReady records that the kitchen has finished a preparing order.
func (lc *Lifecycle) MarkReady(order *models.Order) bool {
	return lc.transition(order, models.OrderStatusReady, models.OrderStatusPreparing)
}

// MarkAsServed records that a ready order reached the table.
func (lc *Lifecycle) MarkAsServed(order *models.Order) bool {
	return lc.transition(order, models.OrderStatusServed, models.OrderStatusReady)
}

// CompleteOrder closes a served order so it can be paid.
func (lc *Lifecycle) CompleteOrder(order *models.Order) bool {
	return lc.transition(order, models.OrderStatusCompleted, models.OrderStatusServed)
}

// CancelOrder cancels a pending or preparing order, cancelling its payment
// as well. An empty reason is recorded as "Order cancelled".
func (lc *Lifecycle) CancelOrder(order *models.Order, reason string) bool {
	if !lc.transition(order, models.OrderStatusCancelled, models.OrderStatusPending, models.OrderStatusPreparing) {
		return false
	}
	order.PaymentStatus = models.PaymentStatusCancelled
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Order cancelled"
	}
	order.CancelReason = reason
	return true
}

// CanModifyOrder is true iff the order is pending.
func (lc *Lifecycle) CanModifyOrder(order *models.Order) bool {
	return order != nil && order.OrderStatus == models.OrderStatusPending
}

// CanPayOrder is true iff the order is completed and not yet paid.
func (lc *Lifecycle) CanPayOrder(order *models.Order) bool {
	return order != nil &&
		order.OrderStatus == models.OrderStatusCompleted &&
		order.PaymentStatus == models.PaymentStatusPending
}

func (lc *Lifecycle) transition(order *models.Order, to models.OrderStatus, from ...models.OrderStatus) bool {
	if order == nil {
		return false
	}
	for _, s := range from {
		if order.OrderStatus == s {
			order.OrderStatus = to
			order.UpdatedAt = lc.now()
			return true
		}
	}
	return false
}

// recalculate derives totalAmount and finalAmount from the lines.
func (lc *Lifecycle) recalculate(order *models.Order, now time.Time) {
	total := decimal.Zero
	for _, d := range order.Details {
		total = total.Add(d.LineTotal())
	}
	order.TotalAmount = total
	order.FinalAmount = FinalAmount(total, order.DiscountAmount, order.TaxPercent)
	order.UpdatedAt = now
}

// FinalAmount is max(0, total − discount) plus taxPercent of that.
func FinalAmount(total, discount, taxPercent decimal.Decimal) decimal.Decimal {
	net := total.Sub(discount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	if taxPercent.IsPositive() {
		net = net.Add(net.Mul(taxPercent).Div(hundred))
	}
	return net.Round(2)
}

func lineIndex(order *models.Order, productID string) int {
	if order == nil {
		return -1
	}
	for i := range order.Details {
		if order.Details[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func mergeNotes(existing, added string) string {
	added = strings.TrimSpace(added)
	switch {
	case added == "" || added == existing:
		return existing
	case existing == "":
		return added
	default:
		return existing + "; " + added
	}
}
