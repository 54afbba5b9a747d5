package services

import (
	"fmt"
	"strings"

	"cafepos/internal/format"
	"cafepos/internal/models"

	"github.com/shopspring/decimal"
)

// ReceiptStyle selects the receipt layout.
type ReceiptStyle string

const (
	// ReceiptText is the full Vietnamese receipt handed to the guest.
	ReceiptText ReceiptStyle = "text"
	// ReceiptThermal is the narrow ASCII slip for 58mm printers.
	ReceiptThermal ReceiptStyle = "thermal"
)

// ParseReceiptStyle defaults to ReceiptText.
func ParseReceiptStyle(s string) (ReceiptStyle, bool) {
	switch ReceiptStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReceiptText:
		return ReceiptText, true
	case ReceiptThermal:
		return ReceiptThermal, true
	}
	return "", false
}

const (
	textWidth    = 40
	thermalWidth = 32
)

// ReceiptService renders receipts for paid orders.
type ReceiptService struct {
	orders   *OrderService
	shopName string
}

// NewReceiptService creates a new ReceiptService. shopName heads every
// receipt.
func NewReceiptService(orders *OrderService, shopName string) *ReceiptService {
	return &ReceiptService{orders: orders, shopName: shopName}
}

// Receipt renders the receipt of a paid order.
func (s *ReceiptService) Receipt(orderID string, style ReceiptStyle) (string, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return "", err
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return "", fmt.Errorf("%w: order %s is %s", ErrOrderNotPaid, order.OrderNumber, order.PaymentStatus)
	}
	tableName := order.TableID
	if s.orders.tables != nil {
		if table, err := s.orders.tables.GetByID(order.TableID); err == nil {
			tableName = table.Name
		}
	}
	if style == ReceiptThermal {
		return s.thermal(order, tableName), nil
	}
	return s.text(order, tableName), nil
}

func (s *ReceiptService) text(order *models.Order, tableName string) string {
	var b strings.Builder
	rule := strings.Repeat("=", textWidth) + "\n"
	thin := strings.Repeat("-", textWidth) + "\n"

	b.WriteString(rule)
	b.WriteString(center(strings.ToUpper(s.shopName), textWidth))
	b.WriteString(rule)
	fmt.Fprintf(&b, "Mã đơn hàng: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Bàn: %s\n", tableName)
	fmt.Fprintf(&b, "Thời gian: %s\n", format.DateTime(order.OrderedAt))
	fmt.Fprintf(&b, "Nhân viên: %s\n", order.UserID)
	if order.CustomerID != nil {
		fmt.Fprintf(&b, "Khách hàng: %s\n", *order.CustomerID)
	}
	b.WriteString(thin)
	for _, d := range order.Details {
		b.WriteString(line(fmt.Sprintf("%s x%d", format.Truncate(d.ProductName, 24), d.Quantity), format.TotalAmount(d.LineTotal()), textWidth))
		if d.Quantity > 1 {
			fmt.Fprintf(&b, "  @%s/món\n", format.TotalAmount(d.UnitPrice))
		}
		if d.Notes != "" {
			fmt.Fprintf(&b, "  (%s)\n", d.Notes)
		}
	}
	b.WriteString(thin)
	b.WriteString(line("Tạm tính:", format.TotalAmount(order.TotalAmount), textWidth))
	if order.DiscountAmount.IsPositive() {
		b.WriteString(line("Giảm giá:", "-"+format.TotalAmount(order.DiscountAmount), textWidth))
	}
	if order.TaxPercent.IsPositive() {
		b.WriteString(line("VAT ("+format.Percent(order.TaxPercent)+"):", format.TotalAmount(taxAmount(order)), textWidth))
	}
	b.WriteString(rule)
	b.WriteString(line("TỔNG TIỀN:", format.TotalAmount(order.FinalAmount), textWidth))
	b.WriteString(rule)
	fmt.Fprintf(&b, "Thanh toán: %s\n", order.PaymentMethod.DisplayName())
	if order.PaidAt != nil {
		fmt.Fprintf(&b, "Thanh toán lúc: %s\n", format.DateTime(*order.PaidAt))
	}
	b.WriteString(rule)
	b.WriteString(center("Cảm ơn quý khách!", textWidth))
	b.WriteString(center("Hẹn gặp lại quý khách!", textWidth))
	b.WriteString(rule)
	return b.String()
}

func (s *ReceiptService) thermal(order *models.Order, tableName string) string {
	var b strings.Builder
	rule := strings.Repeat("=", thermalWidth) + "\n"
	thin := strings.Repeat("-", thermalWidth) + "\n"
	paidAt := order.UpdatedAt
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}

	b.WriteString(rule)
	b.WriteString(center(format.ASCII(strings.ToUpper(s.shopName)), thermalWidth))
	b.WriteString(rule)
	fmt.Fprintf(&b, "Order: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Ban: %s\n", format.ASCII(tableName))
	fmt.Fprintf(&b, "Time: %s\n", paidAt.Format("02/01 15:04"))
	b.WriteString(thin)
	for _, d := range order.Details {
		name := format.Truncate(format.ASCII(d.ProductName), 15)
		b.WriteString(line(fmt.Sprintf("%s x%d", name, d.Quantity), d.LineTotal().StringFixed(0), thermalWidth))
	}
	b.WriteString(thin)
	if order.DiscountAmount.IsPositive() {
		b.WriteString(line("Giam gia:", "-"+order.DiscountAmount.StringFixed(0), thermalWidth))
	}
	b.WriteString(line("TONG:", order.FinalAmount.StringFixed(0)+" d", thermalWidth))
	b.WriteString(rule)
	fmt.Fprintf(&b, "TT: %s\n", format.ASCII(order.PaymentMethod.DisplayName()))
	b.WriteString(rule)
	b.WriteString(center("Cam on quy khach!", thermalWidth))
	b.WriteString(rule)
	return b.String()
}

// taxAmount is the VAT included in finalAmount.
func taxAmount(order *models.Order) decimal.Decimal {
	net := order.TotalAmount.Sub(order.DiscountAmount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return order.FinalAmount.Sub(net)
}

// line puts left and right on one row of width runes.
func line(left, right string, width int) string {
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func center(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
