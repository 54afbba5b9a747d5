package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a customer settled an order.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMomo         PaymentMethod = "momo"
	PaymentMethodVNPay        PaymentMethod = "vnpay"
	PaymentMethodZaloPay      PaymentMethod = "zalopay"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists every supported method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodMomo,
	PaymentMethodVNPay,
	PaymentMethodZaloPay,
	PaymentMethodBankTransfer,
}

// ParsePaymentMethod matches s case-insensitively against the known methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Electronic reports whether the method settles the exact amount with no change.
func (m PaymentMethod) Electronic() bool {
	return m != PaymentMethodCash
}

// RequiresOnlineVerification is true for the e-wallets.
func (m PaymentMethod) RequiresOnlineVerification() bool {
	return m == PaymentMethodMomo || m == PaymentMethodVNPay || m == PaymentMethodZaloPay
}

// DisplayName returns the label shown on receipts.
func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentMethodCash:
		return "Tiền mặt"
	case PaymentMethodCard:
		return "Thẻ tín dụng/ghi nợ"
	case PaymentMethodMomo:
		return "Ví MoMo"
	case PaymentMethodVNPay:
		return "VNPay"
	case PaymentMethodZaloPay:
		return "ZaloPay"
	case PaymentMethodBankTransfer:
		return "Chuyển khoản"
	}
	return string(m)
}

// PaymentRequest is a single payment attempt against an order.
type PaymentRequest struct {
	OrderID         string          `json:"order_id" validate:"required"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
	AmountReceived  decimal.Decimal `json:"amount_received"`
	TransactionCode string          `json:"transaction_code,omitempty" validate:"omitempty,max=64"`
	Notes           string          `json:"notes,omitempty" validate:"omitempty,max=255"`
}

// PaymentResponse is the outcome of a PaymentRequest. It is not persisted.
type PaymentResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ChangeAmount  decimal.Decimal `json:"change_amount"`
	PointsEarned  int             `json:"points_earned,omitempty"`
	Order         *Order          `json:"order,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}
