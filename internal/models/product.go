package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item on the café menu.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string          `json:"name" gorm:"type:varchar(100);index" validate:"required,min=2,max=100"`
	Category      string          `json:"category" gorm:"type:varchar(50);index" validate:"omitempty,max=50"`
	Description   string          `json:"description" validate:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(14,2)"`
	CostPrice     decimal.Decimal `json:"cost_price" gorm:"type:numeric(14,2)"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	IsAvailable   bool            `json:"is_available"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// CanOrder reports whether quantity units of the product can go on a ticket.
func (p *Product) CanOrder(quantity int) bool {
	return p.IsAvailable && p.IsActive && quantity > 0 && quantity <= p.StockQuantity
}
