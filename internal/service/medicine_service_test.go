package service_test

import (
	"context"
	"testing"
	"time"

	"pharmatrack/internal/dto"
	"pharmatrack/internal/model"
	"pharmatrack/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMedicineSvc() (service.MedicineService, *stubMedicineRepo, *stubCategoryRepo) {
	medicineRepo := newStubMedicineRepo()
	categoryRepo := newStubCategoryRepo()
	stockSvc := service.NewStockService(medicineRepo, &stubMovementRepo{})
	svc := service.NewMedicineService(medicineRepo, categoryRepo, stockSvc, func() time.Time { return fixedNow })
	return svc, medicineRepo, categoryRepo
}

func TestCreateMedicine(t *testing.T) {
	svc, _, categoryRepo := buildMedicineSvc()
	cat := &model.Category{ID: uuid.New(), Name: "Antibiotics"}
	categoryRepo.categories[cat.ID] = cat
	catID := cat.ID.String()

	resp, err := svc.Create(context.Background(), dto.CreateMedicineRequest{
		Name:         "Azithromycin 500mg",
		CategoryID:   &catID,
		Quantity:     35,
		BuyingPrice:  decimal.NewFromFloat(12.00),
		SellingPrice: decimal.NewFromFloat(19.50),
		ExpiryDate:   "2026-03-15",
		Manufacturer: "Cipla",
	})
	require.NoError(t, err)
	assert.Equal(t, "Azithromycin 500mg", resp.Name)
	assert.Equal(t, "7.5", resp.ProfitPerUnit.String())
	assert.Equal(t, model.StatusInStock, resp.StockStatus)
	assert.Equal(t, model.StatusValid, resp.ExpiryStatus)
	require.NotNil(t, resp.CategoryID)
	assert.Equal(t, catID, *resp.CategoryID)
}

func TestCreateMedicine_UnknownCategory(t *testing.T) {
	svc, _, _ := buildMedicineSvc()
	missing := uuid.New().String()

	_, err := svc.Create(context.Background(), dto.CreateMedicineRequest{
		Name:         "Orphan Med",
		CategoryID:   &missing,
		Quantity:     1,
		BuyingPrice:  decimal.NewFromFloat(1),
		SellingPrice: decimal.NewFromFloat(2),
		ExpiryDate:   "2026-01-01",
		Manufacturer: "Acme",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetMedicine_StatusLabels(t *testing.T) {
	svc, medicineRepo, _ := buildMedicineSvc()

	low := seedMedicine(medicineRepo, "Low Stock Med", 20, 5, 3)
	expiring := seedMedicine(medicineRepo, "Expiring Med", 50, 5, 3)
	expiring.ExpiryDate = fixedNow.AddDate(0, 0, 14)

	resp, err := svc.GetByID(context.Background(), low.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLowStock, resp.StockStatus)

	resp, err = svc.GetByID(context.Background(), expiring.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpiringSoon, resp.ExpiryStatus)
}

func TestUpdateMedicine_PartialFields(t *testing.T) {
	svc, medicineRepo, _ := buildMedicineSvc()
	m := seedMedicine(medicineRepo, "Old Name", 10, 8.00, 4.00)

	name := "New Name"
	price := decimal.NewFromFloat(9.75)
	resp, err := svc.Update(context.Background(), m.ID, dto.UpdateMedicineRequest{
		Name:         &name,
		SellingPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, "9.75", resp.SellingPrice.String())
	// Untouched fields survive
	assert.Equal(t, "4", resp.BuyingPrice.String())
	assert.Equal(t, 10, resp.Quantity)
}

func TestUpdateMedicine_NotFound(t *testing.T) {
	svc, _, _ := buildMedicineSvc()
	name := "whatever"
	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateMedicineRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteMedicine(t *testing.T) {
	svc, medicineRepo, _ := buildMedicineSvc()
	m := seedMedicine(medicineRepo, "To Remove", 3, 2.00, 1.00)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	assert.NotContains(t, medicineRepo.medicines, m.ID)

	assert.ErrorIs(t, svc.Delete(context.Background(), m.ID), service.ErrNotFound)
}

func TestAdjustStock_ThroughMedicineService(t *testing.T) {
	svc, medicineRepo, _ := buildMedicineSvc()
	m := seedMedicine(medicineRepo, "Restocked Med", 4, 7.00, 4.00)

	resp, err := svc.AdjustStock(context.Background(), m.ID, dto.AdjustStockRequest{
		Delta:  16,
		Reason: "monthly restock",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Quantity)
	assert.Equal(t, model.StatusLowStock, resp.StockStatus)
}
