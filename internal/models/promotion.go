package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is how a promotion's value is applied.
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount
}

// Percentage promotions never take more than half the order.
var maxPercentageShare = decimal.RequireFromString("0.5")

// Promotion is a discount rule staff can apply to an order.
type Promotion struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string          `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	DiscountType   DiscountType    `json:"discount_type" gorm:"type:varchar(20)" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue  decimal.Decimal `json:"discount_value" gorm:"type:numeric(14,2)"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" gorm:"type:numeric(14,2)"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	UsageCount     int             `json:"usage_count"`
	MaxUsage       int             `json:"max_usage" validate:"gte=0"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InPeriod reports whether now lies within the promotion's dates. Missing
// dates leave that side open.
func (p *Promotion) InPeriod(now time.Time) bool {
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}

// Usable reports whether the promotion is active, in period and not used up.
func (p *Promotion) Usable(now time.Time) bool {
	return p.IsActive && p.DiscountValue.IsPositive() && p.InPeriod(now) &&
		(p.MaxUsage <= 0 || p.UsageCount < p.MaxUsage)
}

// CanApply reports whether the promotion covers an order of amount.
func (p *Promotion) CanApply(amount decimal.Decimal, now time.Time) bool {
	return p.Usable(now) && amount.GreaterThanOrEqual(p.MinOrderAmount)
}

// DiscountFor is the discount the promotion grants on amount, or zero when
// it does not apply. Percentage discounts are capped at 50% of amount and
// fixed ones at amount itself.
func (p *Promotion) DiscountFor(amount decimal.Decimal, now time.Time) decimal.Decimal {
	if !p.CanApply(amount, now) {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		discount = decimal.Min(amount.Mul(p.DiscountValue).Div(decimal.NewFromInt(100)), amount.Mul(maxPercentageShare))
	case DiscountFixedAmount:
		discount = decimal.Min(p.DiscountValue, amount)
	default:
		return decimal.Zero
	}
	return discount.Round(2)
}
