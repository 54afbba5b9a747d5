package pos_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepos/internal/models"
	"cafepos/internal/pos"
)

func product(id string, price int64, stock int) models.Product {
	return models.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		IsAvailable:   true,
		IsActive:      true,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newLifecycle() *pos.Lifecycle {
	clock := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return pos.NewLifecycle(pos.Options{Now: func() time.Time { return clock }})
}

func TestCreateOrder(t *testing.T) {
	lc := newLifecycle()

	order := lc.CreateOrder("table-1", "user-1", nil)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.ID)
	assert.Regexp(t, `^ORD-\d+$`, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.TotalAmount.IsZero())
	assert.True(t, order.FinalAmount.IsZero())

	assert.Nil(t, lc.CreateOrder("", "user-1", nil))
	customer := "cust-9"
	assert.Nil(t, lc.CreateOrder("  ", "user-1", &customer))
}

func TestCreateOrder_UniqueNumbersOnSameClock(t *testing.T) {
	lc := newLifecycle()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := lc.CreateOrder("t", "u", nil).OrderNumber
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestAddProductToOrder_TotalsFollowLines(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("table-1", "user-1", nil)

	coffee := product("coffee", 25000, 10)
	tea := product("tea", 45000, 10)

	assert.True(t, lc.AddProductToOrder(order, coffee, 2, "no sugar"))
	assert.True(t, lc.AddProductToOrder(order, tea, 1, ""))
	assert.True(t, lc.AddProductToOrder(order, coffee, 1, "less ice"))

	require.Len(t, order.Details, 2)
	assert.Equal(t, 3, order.Details[0].Quantity)
	assert.Equal(t, "no sugar; less ice", order.Details[0].Notes)

	expected := decimal.Zero
	for _, d := range order.Details {
		expected = expected.Add(d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	assert.True(t, expected.Equal(order.TotalAmount))
	assert.True(t, dec(120000).Equal(order.TotalAmount))
	assert.True(t, order.FinalAmount.Equal(order.TotalAmount))
}

func TestAddProductToOrder_Rejections(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("table-1", "user-1", nil)
	coffee := product("coffee", 25000, 3)
	require.True(t, lc.AddProductToOrder(order, coffee, 1, ""))
	before := order.Clone()

	assert.False(t, lc.AddProductToOrder(order, coffee, 0, ""))
	assert.False(t, lc.AddProductToOrder(order, coffee, -2, ""))
	assert.False(t, lc.AddProductToOrder(order, coffee, 3, ""), "merged quantity above stock")
	assert.False(t, lc.AddProductToOrder(nil, coffee, 1, ""))

	off := product("off", 10000, 5)
	off.IsAvailable = false
	assert.False(t, lc.AddProductToOrder(order, off, 1, ""))

	assert.Equal(t, before, order)

	require.True(t, lc.AddProductToOrder(order, coffee, 1, ""))
	require.True(t, lc.PlaceOrder(order))
	assert.False(t, lc.AddProductToOrder(order, coffee, 1, ""), "not pending")
}

func TestRemoveAndUpdateQuantity(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("table-1", "user-1", nil)
	coffee := product("coffee", 25000, 10)
	tea := product("tea", 45000, 10)
	require.True(t, lc.AddProductToOrder(order, coffee, 2, ""))
	require.True(t, lc.AddProductToOrder(order, tea, 1, ""))

	assert.True(t, lc.UpdateProductQuantity(order, coffee, 4))
	assert.True(t, dec(145000).Equal(order.TotalAmount))

	assert.False(t, lc.UpdateProductQuantity(order, coffee, 11))
	assert.False(t, lc.UpdateProductQuantity(order, coffee, -1))
	assert.False(t, lc.UpdateProductQuantity(order, product("ghost", 1, 1), 1))

	assert.True(t, lc.UpdateProductQuantity(order, tea, 0))
	require.Len(t, order.Details, 1)
	assert.True(t, dec(100000).Equal(order.TotalAmount))

	assert.False(t, lc.RemoveProductFromOrder(order, "tea"))
	assert.True(t, lc.RemoveProductFromOrder(order, "coffee"))
	assert.Empty(t, order.Details)
	assert.True(t, order.TotalAmount.IsZero())
}

func TestPlaceOrder_RequiresLines(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("table-1", "user-1", nil)

	assert.False(t, lc.PlaceOrder(order))
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
}

func TestHappyPath(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("1", "1", nil)
	require.NotNil(t, order)

	require.True(t, lc.AddProductToOrder(order, product("a", 25000, 10), 2, ""))
	require.True(t, lc.AddProductToOrder(order, product("b", 45000, 10), 1, ""))
	assert.True(t, dec(95000).Equal(order.TotalAmount))

	require.True(t, lc.PlaceOrder(order))
	assert.Equal(t, models.OrderStatusPreparing, order.OrderStatus)
	require.True(t, lc.MarkReady(order))
	assert.Equal(t, models.OrderStatusReady, order.OrderStatus)
	require.True(t, lc.MarkAsServed(order))
	assert.Equal(t, models.OrderStatusServed, order.OrderStatus)
	assert.False(t, lc.CanPayOrder(order))
	require.True(t, lc.CompleteOrder(order))
	assert.True(t, lc.CanPayOrder(order))
	assert.False(t, lc.CanModifyOrder(order))

	require.True(t, lc.ProcessPayment(order, "cash", dec(100000)))
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCash, order.PaymentMethod)
	assert.NotNil(t, order.PaidAt)
	assert.True(t, dec(5000).Equal(lc.CalculateChange(order, dec(100000))))

	assert.False(t, lc.ProcessPayment(order, "cash", dec(100000)), "already paid")
}

func TestTransitionsOutOfOrder(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("1", "1", nil)
	require.True(t, lc.AddProductToOrder(order, product("a", 10000, 5), 1, ""))

	assert.False(t, lc.MarkReady(order))
	assert.False(t, lc.MarkAsServed(order))
	assert.False(t, lc.CompleteOrder(order))
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)

	require.True(t, lc.PlaceOrder(order))
	assert.False(t, lc.PlaceOrder(order))
	assert.False(t, lc.MarkAsServed(order))
	assert.False(t, lc.CompleteOrder(order))
	assert.Equal(t, models.OrderStatusPreparing, order.OrderStatus)

	assert.False(t, lc.MarkReady(nil))
}

func TestCancelOrder(t *testing.T) {
	lc := newLifecycle()

	pending := lc.CreateOrder("1", "1", nil)
	assert.True(t, lc.CancelOrder(pending, ""))
	assert.Equal(t, models.OrderStatusCancelled, pending.OrderStatus)
	assert.Equal(t, models.PaymentStatusCancelled, pending.PaymentStatus)
	assert.Equal(t, "Order cancelled", pending.CancelReason)
	assert.False(t, lc.CancelOrder(pending, "again"))

	preparing := lc.CreateOrder("2", "1", nil)
	require.True(t, lc.AddProductToOrder(preparing, product("a", 10000, 5), 1, ""))
	require.True(t, lc.PlaceOrder(preparing))
	assert.True(t, lc.CancelOrder(preparing, "customer left"))
	assert.Equal(t, "customer left", preparing.CancelReason)

	completed := lc.CreateOrder("3", "1", nil)
	require.True(t, lc.AddProductToOrder(completed, product("a", 10000, 5), 1, ""))
	require.True(t, lc.PlaceOrder(completed))
	require.True(t, lc.MarkReady(completed))
	assert.False(t, lc.CancelOrder(completed, "too late"), "ready")
	require.True(t, lc.MarkAsServed(completed))
	require.True(t, lc.CompleteOrder(completed))
	assert.False(t, lc.CancelOrder(completed, "too late"))

	require.True(t, lc.ProcessPayment(completed, "card", dec(10000)))
	assert.False(t, lc.CancelOrder(completed, "too late"))
	assert.Equal(t, models.OrderStatusCompleted, completed.OrderStatus)
	assert.Equal(t, models.PaymentStatusPaid, completed.PaymentStatus)
}

func completedOrder(t *testing.T, lc *pos.Lifecycle, price int64) *models.Order {
	t.Helper()
	order := lc.CreateOrder("1", "1", nil)
	require.True(t, lc.AddProductToOrder(order, product("a", price, 5), 1, ""))
	require.True(t, lc.PlaceOrder(order))
	require.True(t, lc.MarkReady(order))
	require.True(t, lc.MarkAsServed(order))
	require.True(t, lc.CompleteOrder(order))
	return order
}

func TestProcessPayment_Insufficient(t *testing.T) {
	lc := newLifecycle()
	order := completedOrder(t, lc, 50000)

	assert.False(t, lc.ProcessPayment(order, "cash", dec(10000)))
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Empty(t, order.PaymentMethod)

	assert.False(t, lc.ProcessPayment(order, "bitcoin", dec(50000)))
	assert.True(t, lc.ProcessPayment(order, "MOMO", dec(50000)))
	assert.Equal(t, models.PaymentMethodMomo, order.PaymentMethod)
}

func TestProcessPayment_NotCompleted(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("1", "1", nil)
	require.True(t, lc.AddProductToOrder(order, product("a", 50000, 5), 1, ""))

	assert.False(t, lc.ProcessPayment(order, "cash", dec(100000)))
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestCalculateChange_Preview(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("1", "1", nil)
	require.True(t, lc.AddProductToOrder(order, product("a", 50000, 5), 1, ""))

	assert.True(t, dec(-10000).Equal(lc.CalculateChange(order, dec(40000))))
	assert.True(t, dec(0).Equal(lc.CalculateChange(order, dec(50000))))
	assert.True(t, dec(7).Equal(pos.CalculateChange(nil, dec(7))))
}

func TestDiscountAndTax(t *testing.T) {
	lc := pos.NewLifecycle(pos.Options{TaxPercent: dec(8)})
	order := lc.CreateOrder("1", "1", nil)
	require.True(t, lc.AddProductToOrder(order, product("a", 100000, 5), 1, ""))
	assert.True(t, dec(108000).Equal(order.FinalAmount))

	assert.False(t, lc.ApplyDiscount(order, dec(-1)))
	assert.False(t, lc.ApplyDiscount(order, dec(100001)))
	require.True(t, lc.ApplyDiscount(order, dec(20000)))
	assert.True(t, dec(100000).Equal(order.TotalAmount))
	assert.True(t, dec(86400).Equal(order.FinalAmount))

	require.True(t, lc.RemoveProductFromOrder(order, "a"))
	assert.True(t, order.FinalAmount.IsZero(), "final amount never goes negative")
}

func TestNewLifecycle_ClampsTax(t *testing.T) {
	assert.True(t, dec(30).Equal(pos.NewLifecycle(pos.Options{TaxPercent: dec(45)}).TaxPercent()))
	assert.True(t, pos.NewLifecycle(pos.Options{TaxPercent: dec(-3)}).TaxPercent().IsZero())
}

func TestFormatTotalAmount(t *testing.T) {
	assert.Equal(t, "50,000 VNĐ", newLifecycle().FormatTotalAmount(dec(50000)))
}

func TestOrderSink(t *testing.T) {
	lc := newLifecycle()
	order := lc.CreateOrder("1", "1", nil)
	coffee := product("coffee", 25000, 10)

	sinks := []pos.OrderSink{pos.NewCart(), lc.Sink(order)}
	for _, s := range sinks {
		assert.True(t, s.AddProductToOrder(coffee, 2, "hot"))
		assert.False(t, s.AddProductToOrder(coffee, 0, ""))
	}
	assert.True(t, dec(50000).Equal(order.TotalAmount))
	assert.Equal(t, "hot", sinks[0].(*pos.Cart).Lines()[0].Notes)
}
