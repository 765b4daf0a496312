package dto

import "github.com/shopspring/decimal"

// LowStockAlert flags a medicine whose stock fell below the alert threshold.
type LowStockAlert struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Threshold  int    `json:"threshold"`
}

// ExpiryAlert flags a medicine expiring within the warning window.
type ExpiryAlert struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	ExpiryDate string `json:"expiry_date"`
	DaysLeft   int    `json:"days_left"` // negative when already expired
}

// AlertsResponse bundles both alert sets for the dashboard.
type AlertsResponse struct {
	LowStock     []LowStockAlert `json:"low_stock"`
	ExpiringSoon []ExpiryAlert   `json:"expiring_soon"`
}

// ProfitReportResponse aggregates profit over all sale items:
// Σ (unit_price − buying_price) × quantity.
type ProfitReportResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	ItemsSold    int64           `json:"items_sold"`
}

// DailySummaryResponse is the same aggregate restricted to one calendar date.
type DailySummaryResponse struct {
	Date      string          `json:"date"`
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}

// StockMovementResponse is one audit row from the stock ledger.
type StockMovementResponse struct {
	ID             string  `json:"id"`
	MedicineID     string  `json:"medicine_id"`
	Medicine       string  `json:"medicine,omitempty"`
	Type           string  `json:"type"`
	Quantity       int     `json:"quantity"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id"`
	CreatedAt      string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
