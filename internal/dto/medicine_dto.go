package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMedicineRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	CategoryID   *string         `json:"category_id"   validate:"omitempty,uuid"`
	Quantity     int             `json:"quantity"      validate:"min=0"`
	BuyingPrice  decimal.Decimal `json:"buying_price"  validate:"required,min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required,min=0"`
	ExpiryDate   string          `json:"expiry_date"   validate:"required,datetime=2006-01-02"`
	Manufacturer string          `json:"manufacturer"  validate:"required,max=120"`
}

type UpdateMedicineRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	CategoryID   *string          `json:"category_id"   validate:"omitempty,uuid"`
	BuyingPrice  *decimal.Decimal `json:"buying_price"  validate:"omitempty,min=0"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,min=0"`
	ExpiryDate   *string          `json:"expiry_date"   validate:"omitempty,datetime=2006-01-02"`
	Manufacturer *string          `json:"manufacturer"  validate:"omitempty,max=120"`
}

// AdjustStockRequest applies a signed manual correction to a medicine's stock.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MedicineFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MedicineResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id"`
	CategoryName  *string         `json:"category_name,omitempty"`
	Quantity      int             `json:"quantity"`
	BuyingPrice   decimal.Decimal `json:"buying_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`
	ExpiryDate    string          `json:"expiry_date"`
	Manufacturer  string          `json:"manufacturer"`
	StockStatus   string          `json:"stock_status"`
	ExpiryStatus  string          `json:"expiry_status"`
}

type MedicineListResponse struct {
	Data  []MedicineResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// AvailabilityResponse is returned by the cached availability check endpoint.
type AvailabilityResponse struct {
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Quantity     int             `json:"quantity"`
	StockStatus  string          `json:"stock_status"`
}
