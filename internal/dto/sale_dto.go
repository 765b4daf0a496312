package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	MedicineID string `json:"medicine_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"    validate:"required,min=1"`
	// UnitPrice overrides the captured selling price (discounted lines).
	// When omitted, the medicine's current selling price is frozen onto the item.
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

type SettleSaleRequest struct {
	Items       []SaleItemRequest `json:"items"        validate:"required,min=1,dive"`
	PaymentMode string            `json:"payment_mode" validate:"omitempty,oneof=cash card mobile"`
	// ReceiptEmail: optional — when present, a PDF receipt is mailed after settlement.
	ReceiptEmail *string `json:"receipt_email" validate:"omitempty,email"`
}

type AddSaleItemRequest struct {
	MedicineID string           `json:"medicine_id" validate:"required,uuid"`
	Quantity   int              `json:"quantity"    validate:"required,min=1"`
	UnitPrice  *decimal.Decimal `json:"unit_price"  validate:"omitempty,gte=0"`
}

type UpdateSaleItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date        string `form:"date"` // YYYY-MM-DD; empty = today
	PaymentMode string `form:"payment_mode" validate:"omitempty,oneof=cash card mobile"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID        string          `json:"id"`
	Medicine  string          `json:"medicine"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID          string             `json:"id"`
	Items       []SaleItemResponse `json:"items"`
	PaymentMode string             `json:"payment_mode"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
