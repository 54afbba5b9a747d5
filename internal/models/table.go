package models

import "time"

// TableStatus is the floor state of a café table.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusCleaning  TableStatus = "cleaning"
)

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusCleaning:
		return true
	}
	return false
}

// Table represents a seat group orders are opened against.
type Table struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string      `json:"name" gorm:"type:varchar(50);uniqueIndex" validate:"required,max=50"`
	Area      string      `json:"area" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Capacity  int         `json:"capacity" validate:"gte=1,lte=50"`
	Status    TableStatus `json:"status" gorm:"type:varchar(20)"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
