package repository

import (
	"context"
	"errors"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional stock decrement matches
// no row — either the medicine is gone or the remaining quantity is too small.
// The service layer turns it into a detailed out-of-stock error.
var ErrInsufficientStock = errors.New("insufficient stock")

// MedicineRepository defines the data access contract for medicines.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	List(ctx context.Context, filter dto.MedicineFilter) ([]model.Medicine, int64, error)
	Update(ctx context.Context, m *model.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Read-only reporting queries. The cutoff is computed by the caller from
	// its injected clock.
	LowStock(ctx context.Context, threshold int) ([]model.Medicine, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Medicine, error)

	// Used inside transactions — callers must pass the tx instance.
	// DeductStockTx is the atomic check-and-decrement: it fails with
	// ErrInsufficientStock instead of ever letting quantity go negative.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error)
	DeductStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	RestoreStockTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type medicineRepo struct{ db *gorm.DB }

func NewMedicineRepository(db *gorm.DB) MedicineRepository { return &medicineRepo{db: db} }

func (r *medicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *medicineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.WithContext(ctx).Preload("Category").First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepo) List(ctx context.Context, filter dto.MedicineFilter) ([]model.Medicine, int64, error) {
	var medicines []model.Medicine
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Medicine{})

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.LowStock {
		q = q.Where("quantity <= ?", model.LowStockLabelThreshold)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Category").Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&medicines).Error
	return medicines, total, err
}

func (r *medicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *medicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Medicine{}, "id = ?", id).Error
}

func (r *medicineRepo) LowStock(ctx context.Context, threshold int) ([]model.Medicine, error) {
	var medicines []model.Medicine
	err := r.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("quantity ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepo) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Medicine, error) {
	var medicines []model.Medicine
	err := r.db.WithContext(ctx).
		Where("expiry_date <= ?", cutoff).
		Order("expiry_date ASC").
		Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := tx.First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeductStockTx decrements quantity only when enough stock remains, in a single
// UPDATE. Zero rows affected means the guard failed — the enclosing transaction
// must roll back.
func (r *medicineRepo) DeductStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.Medicine{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *medicineRepo) RestoreStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.Medicine{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *medicineRepo) DB() *gorm.DB { return r.db }
