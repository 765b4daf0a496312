package repository

import (
	"context"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository covers the sale ledger: headers, line items, and the cached
// total. All mutating methods take the live transaction so stock movement and
// item persistence commit or roll back together.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)

	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.SaleItem, error)
	CreateItemTx(tx *gorm.DB, item *model.SaleItem) error
	UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error

	// SumItemsTx recomputes Σ unit_price × quantity from the item rows as they
	// stand inside the transaction; UpdateTotalTx persists it on the header.
	SumItemsTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)
	UpdateTotalTx(tx *gorm.DB, saleID uuid.UUID, total decimal.Decimal) error

	// DeleteTx removes the sale and all its items.
	DeleteTx(tx *gorm.DB, saleID uuid.UUID) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.Medicine").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.PaymentMode != "" {
		q = q.Where("payment_mode = ?", filter.PaymentMode)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Medicine").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.SaleItem, error) {
	var item model.SaleItem
	err := r.db.WithContext(ctx).Preload("Medicine").First(&item, "id = ?", itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *saleRepo) CreateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Create(item).Error
}

func (r *saleRepo) UpdateItemQuantityTx(tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	return tx.Model(&model.SaleItem{}).Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (r *saleRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.SaleItem{}, "id = ?", itemID).Error
}

func (r *saleRepo) SumItemsTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&model.SaleItem{}).
		Where("sale_id = ?", saleID).
		Select("COALESCE(SUM(unit_price * quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) UpdateTotalTx(tx *gorm.DB, saleID uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Sale{}).Where("id = ?", saleID).
		Update("total_amount", total).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, saleID uuid.UUID) error {
	if err := tx.Delete(&model.SaleItem{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Sale{}, "id = ?", saleID).Error
}
