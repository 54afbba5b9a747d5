package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cafepos/internal/format"
	"cafepos/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PaymentService settles completed orders.
type PaymentService struct {
	orders   *OrderService
	loyalty  LoyaltyRecorder
	validate *validator.Validate
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService on top of the order service
// that owns the orders. Paid orders with a customer are credited to loyalty,
// which may be nil.
func NewPaymentService(orders *OrderService, loyalty LoyaltyRecorder) *PaymentService {
	return &PaymentService{
		orders:   orders,
		loyalty:  loyalty,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Methods lists the supported payment methods.
func (s *PaymentService) Methods() []models.PaymentMethod {
	return append([]models.PaymentMethod(nil), models.PaymentMethods...)
}

// ProcessPayment records a payment for a completed order. Cash must cover
// the amount due and yields change; every other method must match it
// exactly, and a zero amount is read as "the amount due".
func (s *PaymentService) ProcessPayment(req models.PaymentRequest) (*models.PaymentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayment, err)
	}
	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, req.PaymentMethod)
	}
	if req.AmountReceived.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidPayment)
	}

	lc := s.orders.Lifecycle()
	var received decimal.Decimal
	order, err := s.orders.mutate(req.OrderID, EventOrderPaid, func(order *models.Order) error {
		if !lc.CanPayOrder(order) {
			return fmt.Errorf("%w: order %s is %s/%s", ErrPaymentNotAllowed, order.OrderNumber, order.OrderStatus, order.PaymentStatus)
		}
		received = req.AmountReceived
		if method.Electronic() {
			if received.IsZero() {
				received = order.FinalAmount
			}
			if !received.Equal(order.FinalAmount) {
				return fmt.Errorf("%w: due %s, got %s", ErrAmountMismatch,
					format.TotalAmount(order.FinalAmount), format.TotalAmount(received))
			}
		}
		if !lc.ProcessPayment(order, string(method), received) {
			return fmt.Errorf("%w: due %s, got %s", ErrInsufficientAmount,
				format.TotalAmount(order.FinalAmount), format.TotalAmount(received))
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			order.Notes = mergeNotes(order.Notes, notes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.orders.setTableStatus(order.TableID, models.TableStatusAvailable)

	paidAt := s.now()
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}
	transactionID := strings.TrimSpace(req.TransactionCode)
	if transactionID == "" {
		transactionID = "TXN" + strconv.FormatInt(paidAt.UnixMilli(), 10)
	}
	change := lc.CalculateChange(order, received)
	points := s.creditLoyalty(order)

	s.orders.log.Info().
		Str("order_id", order.ID).
		Str("method", string(method)).
		Str("amount", order.FinalAmount.String()).
		Str("change", change.String()).
		Str("transaction_id", transactionID).
		Msg("order paid")

	return &models.PaymentResponse{
		Success:       true,
		Message:       fmt.Sprintf("%s payment successful. Amount: %s", method.DisplayName(), format.TotalAmount(order.FinalAmount)),
		TransactionID: transactionID,
		ChangeAmount:  change,
		PointsEarned:  points,
		Order:         order,
		Timestamp:     paidAt,
	}, nil
}

func (s *PaymentService) creditLoyalty(order *models.Order) int {
	if s.loyalty == nil || order.CustomerID == nil || *order.CustomerID == "" {
		return 0
	}
	points, err := s.loyalty.RecordPurchase(*order.CustomerID, order.FinalAmount)
	if err != nil {
		s.orders.log.Warn().Err(err).Str("order_id", order.ID).Str("customer_id", *order.CustomerID).Msg("failed to credit loyalty points")
		return 0
	}
	return points
}

// PreviewChange returns the change due for amountReceived without paying.
// The result is negative when the amount is short.
func (s *PaymentService) PreviewChange(orderID string, amountReceived decimal.Decimal) (decimal.Decimal, *models.Order, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	return s.orders.Lifecycle().CalculateChange(order, amountReceived), order, nil
}

func mergeNotes(existing, added string) string {
	if existing == "" {
		return added
	}
	return existing + "; " + added
}
