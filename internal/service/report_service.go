package service

import (
	"context"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"
	"pharmatrack/internal/repository"
)

// ReportService provides the read-only reporting queries: stock and expiry
// alerts, aggregate profit, and the daily summary. The reference time comes
// from an injected clock so the queries stay deterministic under test.
type ReportService interface {
	Alerts(ctx context.Context) (*dto.AlertsResponse, error)
	Profit(ctx context.Context) (*dto.ProfitReportResponse, error)
	DailySummary(ctx context.Context) (*dto.DailySummaryResponse, error)
}

type reportService struct {
	medicines repository.MedicineRepository
	reports   repository.ReportRepository
	threshold int
	now       func() time.Time
}

func NewReportService(
	medicines repository.MedicineRepository,
	reports repository.ReportRepository,
	lowStockThreshold int,
	now func() time.Time,
) ReportService {
	return &reportService{
		medicines: medicines,
		reports:   reports,
		threshold: lowStockThreshold,
		now:       now,
	}
}

func (s *reportService) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	now := s.now()

	low, err := s.medicines.LowStock(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	expiring, err := s.medicines.ExpiringBefore(ctx, now.Add(model.ExpiryWarningWindow))
	if err != nil {
		return nil, err
	}

	resp := &dto.AlertsResponse{
		LowStock:     make([]dto.LowStockAlert, 0, len(low)),
		ExpiringSoon: make([]dto.ExpiryAlert, 0, len(expiring)),
	}
	for _, m := range low {
		resp.LowStock = append(resp.LowStock, dto.LowStockAlert{
			MedicineID: m.ID.String(),
			Name:       m.Name,
			Quantity:   m.Quantity,
			Threshold:  s.threshold,
		})
	}
	for _, m := range expiring {
		daysLeft := int(m.ExpiryDate.Sub(now).Hours() / 24)
		resp.ExpiringSoon = append(resp.ExpiringSoon, dto.ExpiryAlert{
			MedicineID: m.ID.String(),
			Name:       m.Name,
			ExpiryDate: m.ExpiryDate.Format(dateLayout),
			DaysLeft:   daysLeft,
		})
	}
	return resp, nil
}

func (s *reportService) Profit(ctx context.Context) (*dto.ProfitReportResponse, error) {
	agg, err := s.reports.TotalSales(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitReportResponse{
		TotalRevenue: agg.Revenue,
		TotalProfit:  agg.Profit,
		ItemsSold:    agg.ItemsSold,
	}, nil
}

func (s *reportService) DailySummary(ctx context.Context) (*dto.DailySummaryResponse, error) {
	today := s.now()
	agg, err := s.reports.SalesOn(ctx, today)
	if err != nil {
		return nil, err
	}
	return &dto.DailySummaryResponse{
		Date:      today.Format(dateLayout),
		SaleCount: agg.SaleCount,
		Revenue:   agg.Revenue,
		Profit:    agg.Profit,
	}, nil
}
