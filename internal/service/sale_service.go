package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"
	"pharmatrack/internal/repository"
	"pharmatrack/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService owns the sale ledger and every stock side effect it implies.
// Settlement and reversal are explicit transactional methods — no lifecycle
// hooks: a sale either commits with all its items and stock deductions, or
// leaves no trace.
type SaleService interface {
	SettleSale(ctx context.Context, req dto.SettleSaleRequest) (*dto.SaleResponse, error)
	ReverseSale(ctx context.Context, saleID uuid.UUID) error
	GetSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)

	CreateSaleItem(ctx context.Context, saleID uuid.UUID, req dto.AddSaleItemRequest) (*dto.SaleItemResponse, error)
	UpdateSaleItemQuantity(ctx context.Context, itemID uuid.UUID, newQuantity int) (*dto.SaleItemResponse, error)
	DeleteSaleItem(ctx context.Context, itemID uuid.UUID) error
}

type saleService struct {
	repo           repository.SaleRepository
	medicines      repository.MedicineRepository
	stock          StockService
	dispatcher     *worker.Dispatcher
	alertThreshold int
}

func NewSaleService(
	repo repository.SaleRepository,
	medicines repository.MedicineRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
	alertThreshold int,
) SaleService {
	return &saleService{
		repo:           repo,
		medicines:      medicines,
		stock:          stock,
		dispatcher:     dispatcher,
		alertThreshold: alertThreshold,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── SettleSale ────────────────────────────────────────────────────────────────
// Multi-item settlement:
//  1. Resolve medicines and freeze unit prices (pre-flight, outside the tx).
//     Availability accounts for earlier items in the same batch.
//  2. BEGIN TX: create sale + items, deduct stock per item via the conditional
//     update, record stock movements.
//  3. COMMIT — any failed check aborts everything.
//  4. (async) receipt email and low-stock alerts, best effort.

func (s *saleService) SettleSale(ctx context.Context, req dto.SettleSaleRequest) (*dto.SaleResponse, error) {
	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = model.PaymentCash
	}

	type resolvedItem struct {
		medicineID uuid.UUID
		name       string
		unitPrice  decimal.Decimal
		quantity   int
	}

	var resolved []resolvedItem
	total := decimal.Zero
	reserved := make(map[uuid.UUID]int) // stock claimed by earlier items in this batch

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		mid, err := uuid.Parse(item.MedicineID)
		if err != nil {
			return nil, fmt.Errorf("invalid medicine_id: %w", err)
		}
		m, err := s.medicines.FindByID(ctx, mid)
		if err != nil {
			return nil, notFound("medicine " + item.MedicineID)
		}

		available := m.Quantity - reserved[mid]
		if item.Quantity > available {
			return nil, &OutOfStockError{
				MedicineID: mid.String(),
				Medicine:   m.Name,
				Requested:  item.Quantity,
				Available:  available,
			}
		}
		reserved[mid] += item.Quantity

		price := m.SellingPrice
		if item.UnitPrice != nil {
			if item.UnitPrice.IsNegative() {
				return nil, ErrNegativePrice
			}
			price = *item.UnitPrice
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, resolvedItem{
			medicineID: mid,
			name:       m.Name,
			unitPrice:  price,
			quantity:   item.Quantity,
		})
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			PaymentMode: paymentMode,
			TotalAmount: total,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				MedicineID: r.medicineID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
			})
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		// Deduct stock per item. The conditional update is the authority:
		// even if another request raced past the pre-flight check, the
		// decrement fails here and rolls the whole sale back.
		saleRef := sale.ID
		for _, r := range resolved {
			err := s.stock.ApplyDeltaTx(ctx, tx, r.medicineID, -r.quantity,
				model.MovementSale, fmt.Sprintf("Sale %s", sale.ID), &saleRef)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.dispatchPostSale(ctx, &sale, req.ReceiptEmail)

	resp := saleToResponse(&sale)
	for i, r := range resolved {
		resp.Items[i].Medicine = r.name
	}
	return resp, nil
}

// dispatchPostSale enqueues the receipt email and any low-stock alerts.
// Fire and forget — a full queue or dead Redis never fails the sale.
func (s *saleService) dispatchPostSale(ctx context.Context, sale *model.Sale, receiptEmail *string) {
	if s.dispatcher == nil {
		return
	}
	if receiptEmail != nil && *receiptEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
			SaleID:  sale.ID.String(),
			ToEmail: *receiptEmail,
		})
	}
	for _, item := range sale.Items {
		m, err := s.medicines.FindByID(ctx, item.MedicineID)
		if err != nil || m.Quantity >= s.alertThreshold {
			continue
		}
		_ = s.dispatcher.EnqueueStockAlert(ctx, worker.StockAlertJobPayload{
			MedicineID: m.ID.String(),
			Name:       m.Name,
			Quantity:   m.Quantity,
			Threshold:  s.alertThreshold,
		})
	}
}

// ── ReverseSale ───────────────────────────────────────────────────────────────

// ReverseSale restores every item's stock and deletes the sale with its items.
// Fully atomic: a failed restore leaves the sale untouched.
func (s *saleService) ReverseSale(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return notFound("sale")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleRef := sale.ID
		for _, item := range sale.Items {
			err := s.stock.ApplyDeltaTx(ctx, tx, item.MedicineID, item.Quantity,
				model.MovementSaleReversal, fmt.Sprintf("Reversal of sale %s", sale.ID), &saleRef)
			if err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, saleID)
	})
}

// ── Single item operations ────────────────────────────────────────────────────

func (s *saleService) CreateSaleItem(ctx context.Context, saleID uuid.UUID, req dto.AddSaleItemRequest) (*dto.SaleItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, notFound("sale")
	}
	mid, err := uuid.Parse(req.MedicineID)
	if err != nil {
		return nil, fmt.Errorf("invalid medicine_id: %w", err)
	}
	m, err := s.medicines.FindByID(ctx, mid)
	if err != nil {
		return nil, notFound("medicine")
	}

	price := m.SellingPrice
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, ErrNegativePrice
		}
		price = *req.UnitPrice
	}

	item := model.SaleItem{
		SaleID:     sale.ID,
		MedicineID: mid,
		Quantity:   req.Quantity,
		UnitPrice:  price,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateItemTx(tx, &item); err != nil {
			return err
		}
		saleRef := sale.ID
		if err := s.stock.ApplyDeltaTx(ctx, tx, mid, -req.Quantity,
			model.MovementSale, fmt.Sprintf("Item added to sale %s", sale.ID), &saleRef); err != nil {
			return err
		}
		return s.refreshTotalTx(tx, sale.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.SaleItemResponse{
		ID:        item.ID.String(),
		Medicine:  m.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  item.Subtotal(),
	}, nil
}

// UpdateSaleItemQuantity changes a line's quantity and applies the stock
// delta: raising the quantity deducts the difference (and may fail out of
// stock), lowering it restores. The frozen unit price never changes.
func (s *saleService) UpdateSaleItemQuantity(ctx context.Context, itemID uuid.UUID, newQuantity int) (*dto.SaleItemResponse, error) {
	if newQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFound("sale item")
	}

	delta := newQuantity - item.Quantity
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if delta != 0 {
			saleRef := item.SaleID
			reason := fmt.Sprintf("Item quantity %d -> %d on sale %s", item.Quantity, newQuantity, item.SaleID)
			if err := s.stock.ApplyDeltaTx(ctx, tx, item.MedicineID, -delta,
				model.MovementItemUpdate, reason, &saleRef); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateItemQuantityTx(tx, itemID, newQuantity); err != nil {
			return err
		}
		return s.refreshTotalTx(tx, item.SaleID)
	})
	if txErr != nil {
		return nil, txErr
	}

	item.Quantity = newQuantity
	name := ""
	if item.Medicine != nil {
		name = item.Medicine.Name
	}
	return &dto.SaleItemResponse{
		ID:        item.ID.String(),
		Medicine:  name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  item.Subtotal(),
	}, nil
}

// DeleteSaleItem removes a line and restores its full quantity to stock,
// unconditionally.
func (s *saleService) DeleteSaleItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return notFound("sale item")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleRef := item.SaleID
		if err := s.stock.ApplyDeltaTx(ctx, tx, item.MedicineID, item.Quantity,
			model.MovementItemRemoved, fmt.Sprintf("Item removed from sale %s", item.SaleID), &saleRef); err != nil {
			return err
		}
		if err := s.repo.DeleteItemTx(tx, itemID); err != nil {
			return err
		}
		return s.refreshTotalTx(tx, item.SaleID)
	})
}

// refreshTotalTx re-derives the cached header total from the item rows inside
// the same transaction, keeping Sale.TotalAmount == Σ item subtotals at all
// times.
func (s *saleService) refreshTotalTx(tx *gorm.DB, saleID uuid.UUID) error {
	total, err := s.repo.SumItemsTx(tx, saleID)
	if err != nil {
		return err
	}
	return s.repo.UpdateTotalTx(tx, saleID, total)
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("sale")
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		name := ""
		if item.Medicine != nil {
			name = item.Medicine.Name
		}
		items = append(items, dto.SaleItemResponse{
			ID:        item.ID.String(),
			Medicine:  name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return &dto.SaleResponse{
		ID:          s.ID.String(),
		Items:       items,
		PaymentMode: s.PaymentMode,
		TotalAmount: s.TotalAmount,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
