package services_test

import (
	"testing"
	"time"

	"cafepos/internal/logger"
	"cafepos/internal/models"
	"cafepos/internal/pos"
	"cafepos/internal/repositories"
	"cafepos/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orders    *repositories.MemoryOrderRepository
	products  *repositories.MemoryProductRepository
	tables    *repositories.MemoryTableRepository
	pub       *recordingPublisher
	svc       *services.OrderService
	payments  *services.PaymentService
	customers *services.CustomerService
	table     models.Table
	coffee    models.Product
	tea       models.Product
}

func newFixture(t *testing.T, taxPercent int64, publisher services.EventPublisher) *fixture {
	t.Helper()
	f := &fixture{
		orders:   repositories.NewMemoryOrderRepository(),
		products: repositories.NewMemoryProductRepository(),
		tables:   repositories.NewMemoryTableRepository(),
		pub:      &recordingPublisher{},
	}
	f.table = models.Table{Name: "Bàn 5", Capacity: 4, Status: models.TableStatusAvailable, IsActive: true}
	require.NoError(t, f.tables.Create(&f.table))
	f.coffee = models.Product{Name: "Cà phê sữa", Category: "coffee", Price: vnd(25000), StockQuantity: 10, IsAvailable: true, IsActive: true}
	f.tea = models.Product{Name: "Trà đào", Category: "tea", Price: vnd(45000), StockQuantity: 3, IsAvailable: true, IsActive: true}
	require.NoError(t, f.products.Create(&f.coffee))
	require.NoError(t, f.products.Create(&f.tea))

	if publisher == nil {
		publisher = f.pub
	}
	lc := pos.NewLifecycle(pos.Options{TaxPercent: decimal.NewFromInt(taxPercent)})
	f.svc = services.NewOrderService(f.orders, f.products, f.tables, lc, publisher, logger.Nop())
	f.customers = services.NewCustomerService(repositories.NewMemoryCustomerRepository(), logger.Nop())
	f.payments = services.NewPaymentService(f.svc, f.customers)
	return f
}

func (f *fixture) tableStatus(t *testing.T) models.TableStatus {
	t.Helper()
	table, err := f.tables.GetByID(f.table.ID)
	require.NoError(t, err)
	return table.Status
}

// completedOrder opens an order with 2 coffees and 1 tea (95,000) and walks
// it to completed.
func (f *fixture) completedOrder(t *testing.T) *models.Order {
	t.Helper()
	order, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.coffee.ID, 2, "")
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.tea.ID, 1, "ít đường")
	require.NoError(t, err)
	for _, step := range []func(string) (*models.Order, error){
		f.svc.PlaceOrder, f.svc.MarkReady, f.svc.ServeOrder, f.svc.CompleteOrder,
	} {
		order, err = step(order.ID)
		require.NoError(t, err)
	}
	return order
}

func TestOrderService_OpenOrderReusesActiveOrder(t *testing.T) {
	f := newFixture(t, 0, nil)

	order, created, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Regexp(t, `^ORD-\d+$`, order.OrderNumber)
	assert.Equal(t, models.TableStatusOccupied, f.tableStatus(t))

	again, created, err := f.svc.OpenOrder(f.table.ID, "staff-2", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, []string{services.EventOrderCreated}, f.pub.Keys())
}

func TestOrderService_OpenOrderRejectsBadTable(t *testing.T) {
	f := newFixture(t, 0, nil)

	_, _, err := f.svc.OpenOrder("  ", "staff-1", nil)
	assert.ErrorIs(t, err, services.ErrInvalidOrder)

	_, _, err = f.svc.OpenOrder("no-such-table", "staff-1", nil)
	assert.ErrorIs(t, err, services.ErrTableNotFound)

	closed := models.Table{Name: "Bàn hỏng", Capacity: 2, Status: models.TableStatusAvailable}
	require.NoError(t, f.tables.Create(&closed))
	_, _, err = f.svc.OpenOrder(closed.ID, "staff-1", nil)
	assert.ErrorIs(t, err, services.ErrInvalidTable)
}

func TestOrderService_HappyPath(t *testing.T) {
	f := newFixture(t, 0, nil)

	order := f.completedOrder(t)
	assert.Equal(t, models.OrderStatusCompleted, order.OrderStatus)
	assert.True(t, order.TotalAmount.Equal(vnd(95000)))
	assert.True(t, order.FinalAmount.Equal(vnd(95000)))
	require.Len(t, order.Details, 2)
	assert.Equal(t, "ít đường", order.Details[1].Notes)

	resp, err := f.payments.ProcessPayment(models.PaymentRequest{
		OrderID:        order.ID,
		PaymentMethod:  "cash",
		AmountReceived: vnd(100000),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.ChangeAmount.Equal(vnd(5000)), resp.ChangeAmount.String())
	assert.Regexp(t, `^TXN\d+$`, resp.TransactionID)
	assert.Contains(t, resp.Message, "95,000 VNĐ")

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCash, stored.PaymentMethod)
	assert.NotNil(t, stored.PaidAt)
	assert.Equal(t, models.TableStatusAvailable, f.tableStatus(t))

	assert.Equal(t, []string{
		services.EventOrderCreated,
		services.EventOrderStatusChanged,
		services.EventOrderStatusChanged,
		services.EventOrderStatusChanged,
		services.EventOrderStatusChanged,
		services.EventOrderPaid,
	}, f.pub.Keys())
}

func TestOrderService_AddItemFailuresLeaveOrderUntouched(t *testing.T) {
	f := newFixture(t, 0, nil)
	order, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.tea.ID, 2, "")
	require.NoError(t, err)

	_, err = f.svc.AddItem(order.ID, f.coffee.ID, 0, "")
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	_, err = f.svc.AddItem(order.ID, f.coffee.ID, -2, "")
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	// 2 already on the order, 3 in stock
	_, err = f.svc.AddItem(order.ID, f.tea.ID, 2, "")
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = f.svc.AddItem(order.ID, "no-such-product", 1, "")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = f.svc.AddItem("no-such-order", f.tea.ID, 1, "")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Details, 1)
	assert.Equal(t, 2, stored.Details[0].Quantity)
	assert.True(t, stored.TotalAmount.Equal(vnd(90000)))

	_, err = f.svc.PlaceOrder(order.ID)
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.coffee.ID, 1, "")
	assert.ErrorIs(t, err, services.ErrOrderNotEditable)
	_, err = f.svc.RemoveItem(order.ID, f.tea.ID)
	assert.ErrorIs(t, err, services.ErrOrderNotEditable)
}

func TestOrderService_UpdateAndRemoveItems(t *testing.T) {
	f := newFixture(t, 0, nil)
	order, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.coffee.ID, 1, "")
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.tea.ID, 1, "")
	require.NoError(t, err)

	updated, err := f.svc.UpdateItemQuantity(order.ID, f.coffee.ID, 4)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(vnd(145000)))

	_, err = f.svc.UpdateItemQuantity(order.ID, f.coffee.ID, 11)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = f.svc.UpdateItemQuantity(order.ID, "not-on-order", 1)
	assert.ErrorIs(t, err, services.ErrLineNotFound)

	updated, err = f.svc.UpdateItemQuantity(order.ID, f.coffee.ID, 0)
	require.NoError(t, err)
	require.Len(t, updated.Details, 1)
	assert.Equal(t, f.tea.ID, updated.Details[0].ProductID)

	updated, err = f.svc.RemoveItem(order.ID, f.tea.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Details)
	assert.True(t, updated.TotalAmount.IsZero())

	_, err = f.svc.RemoveItem(order.ID, f.tea.ID)
	assert.ErrorIs(t, err, services.ErrLineNotFound)

	_, err = f.svc.PlaceOrder(order.ID)
	assert.ErrorIs(t, err, services.ErrEmptyOrder)
}

func TestOrderService_DiscountAndTax(t *testing.T) {
	f := newFixture(t, 8, nil)
	order, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	order, err = f.svc.AddItem(order.ID, f.coffee.ID, 4, "")
	require.NoError(t, err)
	assert.True(t, order.FinalAmount.Equal(vnd(108000)), order.FinalAmount.String())

	order, err = f.svc.ApplyDiscount(order.ID, vnd(20000))
	require.NoError(t, err)
	assert.True(t, order.FinalAmount.Equal(vnd(86400)), order.FinalAmount.String())

	_, err = f.svc.ApplyDiscount(order.ID, vnd(100001))
	assert.ErrorIs(t, err, services.ErrInvalidDiscount)
	_, err = f.svc.ApplyDiscount(order.ID, vnd(-1))
	assert.ErrorIs(t, err, services.ErrInvalidDiscount)

	_, err = f.svc.CancelOrder(order.ID, "")
	require.NoError(t, err)
	_, err = f.svc.ApplyDiscount(order.ID, vnd(1000))
	assert.ErrorIs(t, err, services.ErrOrderNotEditable)
}

func TestOrderService_Transitions(t *testing.T) {
	f := newFixture(t, 0, nil)
	order, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(order.ID, f.coffee.ID, 1, "")
	require.NoError(t, err)

	_, err = f.svc.MarkReady(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = f.svc.ServeOrder(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = f.svc.CompleteOrder(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	placed, err := f.svc.PlaceOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, placed.OrderStatus)

	_, err = f.svc.PlaceOrder(order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	cancelled, err := f.svc.CancelOrder(order.ID, "khách đổi ý")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.OrderStatus)
	assert.Equal(t, models.PaymentStatusCancelled, cancelled.PaymentStatus)
	assert.Equal(t, "khách đổi ý", cancelled.CancelReason)
	assert.Equal(t, models.TableStatusAvailable, f.tableStatus(t))

	_, err = f.svc.CancelOrder(order.ID, "")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestOrderService_CancelCompletedOrderFails(t *testing.T) {
	f := newFixture(t, 0, nil)
	order := f.completedOrder(t)

	_, err := f.svc.CancelOrder(order.ID, "too late")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.Equal(t, models.TableStatusOccupied, f.tableStatus(t))

	stored, err := f.svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, stored.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newFixture(t, 0, nil)
	second := models.Table{Name: "Bàn 6", Capacity: 2, Status: models.TableStatusAvailable, IsActive: true}
	require.NoError(t, f.tables.Create(&second))

	first, _, err := f.svc.OpenOrder(f.table.ID, "staff-1", nil)
	require.NoError(t, err)
	other, _, err := f.svc.OpenOrder(second.ID, "staff-2", nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(other.ID, f.coffee.ID, 1, "")
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(other.ID)
	require.NoError(t, err)

	all, err := f.svc.ListOrders(services.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.ListOrders(services.OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	byUser, err := f.svc.ListOrders(services.OrderFilter{UserID: "staff-2", Status: models.OrderStatusPreparing})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, other.ID, byUser[0].ID)

	byTable, err := f.svc.ListOrders(services.OrderFilter{TableID: second.ID, Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Empty(t, byTable)

	now := time.Now()
	inRange, err := f.svc.ListOrders(services.OrderFilter{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, inRange, 2)
}
