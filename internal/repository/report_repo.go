package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesAggregate is the raw result of a profit query over sale items.
// Profit is Σ (item.unit_price − medicine.buying_price) × item.quantity,
// so it respects the price frozen on each line, not today's catalog price.
type SalesAggregate struct {
	SaleCount int64
	ItemsSold int64
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
}

// ReportRepository runs the read-only aggregate queries behind the reporting
// endpoints. Kept separate from SaleRepository so the ledger contract stays
// purely transactional.
type ReportRepository interface {
	// TotalSales aggregates over all sale items ever recorded.
	TotalSales(ctx context.Context) (*SalesAggregate, error)
	// SalesOn aggregates over sales whose created_at falls on the given date.
	SalesOn(ctx context.Context, date time.Time) (*SalesAggregate, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

const salesAggregateSQL = `
SELECT
  COUNT(DISTINCT s.id)                                               AS sale_count,
  COALESCE(SUM(i.quantity), 0)                                       AS items_sold,
  COALESCE(SUM(i.unit_price * i.quantity), 0)                        AS revenue,
  COALESCE(SUM((i.unit_price - m.buying_price) * i.quantity), 0)     AS profit
FROM sale_items i
JOIN sales s     ON s.id = i.sale_id
JOIN medicines m ON m.id = i.medicine_id
`

func (r *reportRepo) TotalSales(ctx context.Context) (*SalesAggregate, error) {
	var agg SalesAggregate
	err := r.db.WithContext(ctx).Raw(salesAggregateSQL).Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *reportRepo) SalesOn(ctx context.Context, date time.Time) (*SalesAggregate, error) {
	var agg SalesAggregate
	err := r.db.WithContext(ctx).
		Raw(salesAggregateSQL+" WHERE DATE(s.created_at) = ?", date.Format("2006-01-02")).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
