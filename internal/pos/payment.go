package pos

import (
	"github.com/shopspring/decimal"

	"cafepos/internal/format"
	"cafepos/internal/models"
)

// ProcessPayment settles a completed order. It fails when the order cannot
// be paid, the method is unknown, or amountReceived is below finalAmount.
func (lc *Lifecycle) ProcessPayment(order *models.Order, method string, amountReceived decimal.Decimal) bool {
	if !lc.CanPayOrder(order) {
		return false
	}
	m, ok := models.ParsePaymentMethod(method)
	if !ok {
		return false
	}
	if amountReceived.LessThan(order.FinalAmount) {
		return false
	}
	now := lc.now()
	order.PaymentMethod = m
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaidAt = &now
	order.UpdatedAt = now
	return true
}

// CalculateChange is amountReceived − finalAmount whatever the order's state,
// so it can preview change before payment. The result is negative when the
// amount is short.
func (lc *Lifecycle) CalculateChange(order *models.Order, amountReceived decimal.Decimal) decimal.Decimal {
	return CalculateChange(order, amountReceived)
}

// CalculateChange is the free-function form of Lifecycle.CalculateChange.
func CalculateChange(order *models.Order, amountReceived decimal.Decimal) decimal.Decimal {
	if order == nil {
		return amountReceived
	}
	return amountReceived.Sub(order.FinalAmount)
}

// FormatTotalAmount renders amount for tickets, e.g. "50,000 VNĐ".
func (lc *Lifecycle) FormatTotalAmount(amount decimal.Decimal) string {
	return format.TotalAmount(amount)
}
