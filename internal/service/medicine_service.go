package service

import (
	"context"
	"errors"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"
	"pharmatrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// MedicineService defines the business logic contract for the catalog.
type MedicineService interface {
	Create(ctx context.Context, req dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	List(ctx context.Context, filter dto.MedicineFilter) (*dto.MedicineListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.MedicineResponse, error)
}

type medicineService struct {
	repo       repository.MedicineRepository
	categories repository.CategoryRepository
	stock      StockService
	now        func() time.Time
}

func NewMedicineService(
	repo repository.MedicineRepository,
	categories repository.CategoryRepository,
	stock StockService,
	now func() time.Time,
) MedicineService {
	return &medicineService{repo: repo, categories: categories, stock: stock, now: now}
}

func (s *medicineService) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category")
		}
		return nil, err
	}
	return &id, nil
}

func (s *medicineService) Create(ctx context.Context, req dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	expiry, err := time.Parse(dateLayout, req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	m := &model.Medicine{
		Name:         req.Name,
		CategoryID:   categoryID,
		Quantity:     req.Quantity,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		ExpiryDate:   expiry,
		Manufacturer: req.Manufacturer,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return s.toResponse(m), nil
}

func (s *medicineService) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("medicine")
		}
		return nil, err
	}
	return s.toResponse(m), nil
}

func (s *medicineService) List(ctx context.Context, filter dto.MedicineFilter) (*dto.MedicineListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	medicines, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		data = append(data, *s.toResponse(&medicines[i]))
	}
	return &dto.MedicineListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *medicineService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("medicine")
		}
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.CategoryID != nil {
		categoryID, err := s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		m.CategoryID = categoryID
		m.Category = nil
	}
	// Price edits affect future sales only: unit prices already frozen on
	// sale items stay as they were.
	if req.BuyingPrice != nil {
		m.BuyingPrice = *req.BuyingPrice
	}
	if req.SellingPrice != nil {
		m.SellingPrice = *req.SellingPrice
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse(dateLayout, *req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		m.ExpiryDate = expiry
	}
	if req.Manufacturer != nil {
		m.Manufacturer = *req.Manufacturer
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.toResponse(m), nil
}

func (s *medicineService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("medicine")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *medicineService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.MedicineResponse, error) {
	m, err := s.stock.AdjustManual(ctx, id, req.Delta, req.Reason)
	if err != nil {
		return nil, err
	}
	return s.toResponse(m), nil
}

func (s *medicineService) toResponse(m *model.Medicine) *dto.MedicineResponse {
	var categoryID, categoryName *string
	if m.CategoryID != nil {
		v := m.CategoryID.String()
		categoryID = &v
	}
	if m.Category != nil {
		categoryName = &m.Category.Name
	}
	return &dto.MedicineResponse{
		ID:            m.ID.String(),
		Name:          m.Name,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		Quantity:      m.Quantity,
		BuyingPrice:   m.BuyingPrice,
		SellingPrice:  m.SellingPrice,
		ProfitPerUnit: m.ProfitPerUnit(),
		ExpiryDate:    m.ExpiryDate.Format(dateLayout),
		Manufacturer:  m.Manufacturer,
		StockStatus:   m.StockStatus(),
		ExpiryStatus:  m.ExpiryStatus(s.now()),
	}
}
