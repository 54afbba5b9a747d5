package services

import (
	"sort"
	"time"

	"cafepos/internal/format"
	"cafepos/internal/models"
	"cafepos/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderReport summarises the orders placed in a period.
type OrderReport struct {
	From             time.Time                                `json:"from"`
	To               time.Time                                `json:"to"`
	TotalOrders      int                                      `json:"total_orders"`
	ByStatus         map[models.OrderStatus]int               `json:"by_status"`
	PaidOrders       int                                      `json:"paid_orders"`
	Revenue          decimal.Decimal                          `json:"revenue"`
	FormattedRevenue string                                   `json:"formatted_revenue"`
	RevenueLabel     string                                   `json:"revenue_label"`
	RevenueByMethod  map[models.PaymentMethod]decimal.Decimal `json:"revenue_by_method"`
	DiscountGiven    decimal.Decimal                          `json:"discount_given"`
	AverageTicket    decimal.Decimal                          `json:"average_ticket"`
	TopProducts      []ProductSales                           `json:"top_products"`
}

// ProductSales is the quantity of one product sold on paid orders.
type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ReportService builds sales statistics from stored orders.
type ReportService struct {
	orders repositories.OrderRepository
}

// NewReportService creates a new ReportService.
func NewReportService(orders repositories.OrderRepository) *ReportService {
	return &ReportService{orders: orders}
}

// OrderStatistics reports on orders placed in [from, to). Revenue counts
// only completed orders that were paid.
func (s *ReportService) OrderStatistics(from, to time.Time, topN int) (*OrderReport, error) {
	orders, err := s.orders.FindByDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return Summarise(orders, from, to, topN), nil
}

// Summarise builds an OrderReport from orders already loaded.
func Summarise(orders []models.Order, from, to time.Time, topN int) *OrderReport {
	report := &OrderReport{
		From:            from,
		To:              to,
		TotalOrders:     len(orders),
		ByStatus:        make(map[models.OrderStatus]int),
		Revenue:         decimal.Zero,
		RevenueByMethod: make(map[models.PaymentMethod]decimal.Decimal),
		DiscountGiven:   decimal.Zero,
		AverageTicket:   decimal.Zero,
	}

	sales := make(map[string]*ProductSales)
	var rank []string
	for _, o := range orders {
		report.ByStatus[o.OrderStatus]++
		if o.OrderStatus != models.OrderStatusCompleted || o.PaymentStatus != models.PaymentStatusPaid {
			continue
		}
		report.PaidOrders++
		report.Revenue = report.Revenue.Add(o.FinalAmount)
		report.DiscountGiven = report.DiscountGiven.Add(o.DiscountAmount)
		byMethod := report.RevenueByMethod[o.PaymentMethod]
		report.RevenueByMethod[o.PaymentMethod] = byMethod.Add(o.FinalAmount)

		for _, d := range o.Details {
			ps, ok := sales[d.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: d.ProductID, ProductName: d.ProductName, Revenue: decimal.Zero}
				sales[d.ProductID] = ps
				rank = append(rank, d.ProductID)
			}
			ps.Quantity += d.Quantity
			ps.Revenue = ps.Revenue.Add(d.LineTotal())
		}
	}
	if report.PaidOrders > 0 {
		report.AverageTicket = report.Revenue.Div(decimal.NewFromInt(int64(report.PaidOrders))).Round(0)
	}
	report.FormattedRevenue = format.TotalAmount(report.Revenue)
	report.RevenueLabel = format.Compact(report.Revenue)
	report.TopProducts = topProducts(sales, rank, topN)
	return report
}

func topProducts(sales map[string]*ProductSales, rank []string, n int) []ProductSales {
	out := make([]ProductSales, 0, len(rank))
	for _, id := range rank {
		out = append(out, *sales[id])
	}
	// best sellers first, first seen wins ties
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
