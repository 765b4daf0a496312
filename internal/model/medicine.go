package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock / expiry status labels returned by the API.
const (
	StatusInStock      = "In Stock"
	StatusLowStock     = "Low Stock"
	StatusValid        = "Valid"
	StatusExpiringSoon = "Expiring Soon"
)

// LowStockLabelThreshold drives the display label only. Alert queries use the
// configurable LOW_STOCK_THRESHOLD instead (default 10).
const LowStockLabelThreshold = 20

// ExpiryWarningWindow is how far ahead a medicine counts as "Expiring Soon".
const ExpiryWarningWindow = 30 * 24 * time.Hour

// Medicine is a stocked pharmacy product. Quantity is only ever mutated through
// conditional updates inside sale transactions or explicit manual adjustments,
// and can never go negative.
type Medicine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index"`
	Quantity     int       `gorm:"not null;default:0;check:quantity >= 0"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiryDate   time.Time `gorm:"type:date;not null"`
	Manufacturer string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Removing a category leaves its medicines ungrouped, not deleted.
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

// ProfitPerUnit is the margin earned on one unit at the current prices.
func (m *Medicine) ProfitPerUnit() decimal.Decimal {
	return m.SellingPrice.Sub(m.BuyingPrice)
}

// StockStatus returns the display label for the current quantity.
func (m *Medicine) StockStatus() string {
	if m.Quantity <= LowStockLabelThreshold {
		return StatusLowStock
	}
	return StatusInStock
}

// ExpiryStatus classifies the expiry date against an explicit reference time,
// so callers (and tests) control "today" instead of reading the wall clock.
func (m *Medicine) ExpiryStatus(now time.Time) string {
	if !m.ExpiryDate.After(now.Add(ExpiryWarningWindow)) {
		return StatusExpiringSoon
	}
	return StatusValid
}
