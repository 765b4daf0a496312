package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale         = "sale"
	MovementSaleReversal = "sale_reversal"
	MovementItemUpdate   = "item_update"
	MovementItemRemoved  = "item_removed"
	MovementManualAdjust = "manual_adjust"
)

// StockMovement records every change to a medicine's quantity. Rows are
// immutable — reversals create inverse entries instead of editing history.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicineID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"type:varchar(20);not null"`
	Quantity       int       `gorm:"not null"` // positive = stock in, negative = stock out
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string
	// ReferenceID links to the originating sale when applicable. No FK: the
	// audit row outlives a reversed sale.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Medicine *Medicine `gorm:"foreignKey:MedicineID"`
}

// TableName keeps the table name in noun_noun form.
func (StockMovement) TableName() string { return "stock_movements" }
