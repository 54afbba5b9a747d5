package services_test

import (
	"testing"
	"time"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportOrder(number string, at time.Time, status models.OrderStatus, payment models.PaymentStatus, method models.PaymentMethod, final int64, details ...models.OrderDetail) *models.Order {
	return &models.Order{
		OrderNumber:    number,
		TableID:        "T1",
		OrderedAt:      at,
		OrderStatus:    status,
		PaymentStatus:  payment,
		PaymentMethod:  method,
		TotalAmount:    vnd(final),
		DiscountAmount: decimal.Zero,
		FinalAmount:    vnd(final),
		Details:        details,
	}
}

func TestReportService_OrderStatistics(t *testing.T) {
	repo := repositories.NewMemoryOrderRepository()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	coffee := func(q int) models.OrderDetail {
		return models.OrderDetail{ProductID: "coffee", ProductName: "Cà phê sữa", Quantity: q, UnitPrice: vnd(25000)}
	}
	tea := func(q int) models.OrderDetail {
		return models.OrderDetail{ProductID: "tea", ProductName: "Trà đào", Quantity: q, UnitPrice: vnd(45000)}
	}

	paidCash := reportOrder("ORD-1", day.Add(8*time.Hour), models.OrderStatusCompleted, models.PaymentStatusPaid, models.PaymentMethodCash, 95000, coffee(2), tea(1))
	paidMomo := reportOrder("ORD-2", day.Add(9*time.Hour), models.OrderStatusCompleted, models.PaymentStatusPaid, models.PaymentMethodMomo, 90000, tea(2))
	paidMomo.DiscountAmount = vnd(5000)
	unpaid := reportOrder("ORD-3", day.Add(10*time.Hour), models.OrderStatusCompleted, models.PaymentStatusPending, "", 25000, coffee(1))
	cancelled := reportOrder("ORD-4", day.Add(11*time.Hour), models.OrderStatusCancelled, models.PaymentStatusCancelled, "", 25000, coffee(1))
	nextDay := reportOrder("ORD-5", day.Add(30*time.Hour), models.OrderStatusCompleted, models.PaymentStatusPaid, models.PaymentMethodCash, 25000, coffee(1))
	for _, o := range []*models.Order{paidCash, paidMomo, unpaid, cancelled, nextDay} {
		require.NoError(t, repo.Create(o))
	}

	report, err := services.NewReportService(repo).OrderStatistics(day, day.Add(24*time.Hour), 1)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalOrders)
	assert.Equal(t, 3, report.ByStatus[models.OrderStatusCompleted])
	assert.Equal(t, 1, report.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, 2, report.PaidOrders)
	assert.True(t, report.Revenue.Equal(vnd(185000)), report.Revenue.String())
	assert.Equal(t, "185,000 VNĐ", report.FormattedRevenue)
	assert.Equal(t, "185.0K", report.RevenueLabel)
	assert.True(t, report.RevenueByMethod[models.PaymentMethodCash].Equal(vnd(95000)))
	assert.True(t, report.RevenueByMethod[models.PaymentMethodMomo].Equal(vnd(90000)))
	assert.True(t, report.DiscountGiven.Equal(vnd(5000)))
	assert.True(t, report.AverageTicket.Equal(vnd(92500)))
	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, "tea", report.TopProducts[0].ProductID)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
}

func TestSummarise_Empty(t *testing.T) {
	report := services.Summarise(nil, time.Time{}, time.Time{}, 5)
	assert.Zero(t, report.TotalOrders)
	assert.True(t, report.Revenue.IsZero())
	assert.True(t, report.AverageTicket.IsZero())
	assert.Equal(t, "0 VNĐ", report.FormattedRevenue)
	assert.Empty(t, report.TopProducts)
}
