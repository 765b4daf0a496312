package service_test

import (
	"context"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"
	"pharmatrack/internal/repository"
	"pharmatrack/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations. All Tx methods accept a nil *gorm.DB:
// services run their transaction bodies directly when no database is wired.

type stubMedicineRepo struct {
	medicines map[uuid.UUID]*model.Medicine
}

func newStubMedicineRepo() *stubMedicineRepo {
	return &stubMedicineRepo{medicines: make(map[uuid.UUID]*model.Medicine)}
}

func (r *stubMedicineRepo) Create(_ context.Context, m *model.Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.medicines[m.ID] = m
	return nil
}

func (r *stubMedicineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMedicineRepo) List(_ context.Context, _ dto.MedicineFilter) ([]model.Medicine, int64, error) {
	out := make([]model.Medicine, 0, len(r.medicines))
	for _, m := range r.medicines {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMedicineRepo) Update(_ context.Context, m *model.Medicine) error {
	if _, ok := r.medicines[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.medicines[m.ID] = m
	return nil
}

func (r *stubMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.medicines, id)
	return nil
}

func (r *stubMedicineRepo) LowStock(_ context.Context, threshold int) ([]model.Medicine, error) {
	var out []model.Medicine
	for _, m := range r.medicines {
		if m.Quantity < threshold {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicineRepo) ExpiringBefore(_ context.Context, cutoff time.Time) ([]model.Medicine, error) {
	var out []model.Medicine
	for _, m := range r.medicines {
		if !m.ExpiryDate.After(cutoff) {
			out = append(out, *m)
		}
	}
	return out, nil
}

// FindByIDTx returns a snapshot so callers see the quantity as it was at read
// time, matching a real transaction read.
func (r *stubMedicineRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMedicineRepo) DeductStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	m, ok := r.medicines[id]
	if !ok || m.Quantity < qty {
		return repository.ErrInsufficientStock
	}
	m.Quantity -= qty
	return nil
}

func (r *stubMedicineRepo) RestoreStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	m, ok := r.medicines[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Quantity += qty
	return nil
}

func (r *stubMedicineRepo) DB() *gorm.DB { return nil }

var _ repository.MedicineRepository = (*stubMedicineRepo)(nil)

// stubMovementRepo captures stock movements for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.MedicineID != nil && m.MedicineID != *filter.MedicineID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubSaleRepo keeps sales and items in maps, with insertion order preserved
// for the items so batch assertions stay deterministic.
type stubSaleRepo struct {
	sales     map[uuid.UUID]*model.Sale
	items     map[uuid.UUID]*model.SaleItem
	itemOrder []uuid.UUID
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales: make(map[uuid.UUID]*model.Sale),
		items: make(map[uuid.UUID]*model.SaleItem),
	}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	for i := range s.Items {
		item := &s.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.SaleID = s.ID
		cp := *item
		r.items[item.ID] = &cp
		r.itemOrder = append(r.itemOrder, item.ID)
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Items = nil
	for _, itemID := range r.itemOrder {
		item, ok := r.items[itemID]
		if ok && item.SaleID == id {
			cp.Items = append(cp.Items, *item)
		}
	}
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for id := range r.sales {
		s, _ := r.FindByID(context.Background(), id)
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.SaleItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *stubSaleRepo) CreateItemTx(_ *gorm.DB, item *model.SaleItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	r.itemOrder = append(r.itemOrder, item.ID)
	return nil
}

func (r *stubSaleRepo) UpdateItemQuantityTx(_ *gorm.DB, itemID uuid.UUID, quantity int) error {
	item, ok := r.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *stubSaleRepo) DeleteItemTx(_ *gorm.DB, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubSaleRepo) SumItemsTx(_ *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.items {
		if item.SaleID == saleID {
			total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total, nil
}

func (r *stubSaleRepo) UpdateTotalTx(_ *gorm.DB, saleID uuid.UUID, total decimal.Decimal) error {
	s, ok := r.sales[saleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.TotalAmount = total
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, saleID uuid.UUID) error {
	for id, item := range r.items {
		if item.SaleID == saleID {
			delete(r.items, id)
		}
	}
	delete(r.sales, saleID)
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubCategoryRepo is an in-memory CategoryRepository.
type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// stubReportRepo returns a canned aggregate.
type stubReportRepo struct {
	agg repository.SalesAggregate
}

func (r *stubReportRepo) TotalSales(_ context.Context) (*repository.SalesAggregate, error) {
	cp := r.agg
	return &cp, nil
}

func (r *stubReportRepo) SalesOn(_ context.Context, _ time.Time) (*repository.SalesAggregate, error) {
	cp := r.agg
	return &cp, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

// fixedNow keeps expiry classification deterministic across the suite.
var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedMedicine(repo *stubMedicineRepo, name string, qty int, selling, buying float64) *model.Medicine {
	m := &model.Medicine{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     qty,
		BuyingPrice:  decimal.NewFromFloat(buying),
		SellingPrice: decimal.NewFromFloat(selling),
		ExpiryDate:   fixedNow.AddDate(1, 0, 0),
		Manufacturer: "Acme Labs",
	}
	repo.medicines[m.ID] = m
	return m
}

// buildSaleSvc wires a SaleService over in-memory stubs with a real
// StockService, no dispatcher, and the default alert threshold.
func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubMedicineRepo, *stubMovementRepo) {
	medicineRepo := newStubMedicineRepo()
	movementRepo := &stubMovementRepo{}
	saleRepo := newStubSaleRepo()
	stockSvc := service.NewStockService(medicineRepo, movementRepo)
	svc := service.NewSaleService(saleRepo, medicineRepo, stockSvc, nil, 10)
	return svc, saleRepo, medicineRepo, movementRepo
}
