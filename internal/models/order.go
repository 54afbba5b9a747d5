package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen/service axis of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusServed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Active reports whether an order in this status still holds its table.
func (s OrderStatus) Active() bool {
	return s.Valid() && s != OrderStatusCompleted && s != OrderStatusCancelled
}

// PaymentStatus is the billing axis of an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// OrderDetail is one product line of an order. UnitPrice is the price at the
// time the product was added.
type OrderDetail struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(14,2)"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LineTotal returns UnitPrice × Quantity.
func (d OrderDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Order represents a table's ticket from opening to payment.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber    string          `json:"order_number" gorm:"type:varchar(32);uniqueIndex"`
	TableID        string          `json:"table_id" gorm:"type:varchar(36);index"`
	UserID         string          `json:"user_id" gorm:"type:varchar(36);index"`
	CustomerID     *string         `json:"customer_id,omitempty" gorm:"type:varchar(36)"`
	PromotionID    *string         `json:"promotion_id,omitempty" gorm:"type:varchar(36)"`
	OrderedAt      time.Time       `json:"ordered_at" gorm:"index"`
	OrderStatus    OrderStatus     `json:"order_status" gorm:"type:varchar(20);index"`
	PaymentStatus  PaymentStatus   `json:"payment_status" gorm:"type:varchar(20)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(14,2)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(14,2)"`
	TaxPercent     decimal.Decimal `json:"tax_percent" gorm:"type:numeric(5,2)"`
	FinalAmount    decimal.Decimal `json:"final_amount" gorm:"type:numeric(14,2)"`
	PaymentMethod  PaymentMethod   `json:"payment_method,omitempty" gorm:"type:varchar(20)"`
	Notes          string          `json:"notes,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Details        []OrderDetail   `json:"details" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.CustomerID != nil {
		id := *o.CustomerID
		c.CustomerID = &id
	}
	if o.PromotionID != nil {
		id := *o.PromotionID
		c.PromotionID = &id
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	c.Details = append([]OrderDetail(nil), o.Details...)
	return &c
}
