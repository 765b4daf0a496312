package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes accepted at the counter.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
)

// Sale is a completed counter transaction. CreatedAt is set once at settlement
// and never changes. TotalAmount is a cached aggregate: it always equals the
// sum of item subtotals and is recomputed in the same transaction as any item
// mutation.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentMode string          `gorm:"type:varchar(20);not null;default:'cash'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one line of a sale. UnitPrice is a frozen snapshot of the
// medicine's selling price at sale time — later catalog price changes never
// touch it.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null;check:quantity > 0"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time

	// Deleting a medicine takes its sale lines with it.
	Medicine *Medicine `gorm:"foreignKey:MedicineID;constraint:OnDelete:CASCADE"`
}

// Subtotal is UnitPrice × Quantity for this line.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
