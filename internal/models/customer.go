package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a registered guest who collects loyalty points.
type Customer struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FullName      string          `json:"full_name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Phone         string          `json:"phone" gorm:"type:varchar(20);uniqueIndex" validate:"required,min=8,max=20"`
	Email         string          `json:"email,omitempty" gorm:"type:varchar(255)" validate:"omitempty,email"`
	Address       string          `json:"address,omitempty" validate:"omitempty,max=255"`
	LoyaltyPoints int             `json:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent" gorm:"type:numeric(14,2)"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
