package service

import (
	"context"
	"errors"

	"pharmatrack/internal/model"
	"pharmatrack/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService keeps Medicine.Quantity consistent with the net effect of every
// sale item referencing it. All mutations go through ApplyDeltaTx inside the
// caller's transaction: the decrement path is a conditional UPDATE that can
// never drive quantity negative, and every change leaves an immutable
// StockMovement audit row.
type StockService interface {
	// ApplyDeltaTx applies a signed stock change (negative = stock out) and
	// records the movement. A negative delta that exceeds the available
	// quantity fails with *OutOfStockError and writes nothing.
	ApplyDeltaTx(ctx context.Context, tx *gorm.DB, medicineID uuid.UUID, delta int, movementType, reason string, referenceID *uuid.UUID) error

	// AdjustManual is the standalone correction path (stock take, breakage,
	// supplier delivery). It opens its own transaction.
	AdjustManual(ctx context.Context, medicineID uuid.UUID, delta int, reason string) (*model.Medicine, error)

	ListMovements(ctx context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error)
}

type stockService struct {
	medicines repository.MedicineRepository
	movements repository.StockMovementRepository
}

func NewStockService(medicines repository.MedicineRepository, movements repository.StockMovementRepository) StockService {
	return &stockService{medicines: medicines, movements: movements}
}

func (s *stockService) ApplyDeltaTx(ctx context.Context, tx *gorm.DB, medicineID uuid.UUID, delta int, movementType, reason string, referenceID *uuid.UUID) error {
	if delta == 0 {
		return nil
	}

	// Current quantity read inside the tx — it is both the movement's
	// "before" value and the availability reported on failure.
	m, err := s.medicines.FindByIDTx(tx, medicineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("medicine")
		}
		return err
	}

	if delta < 0 {
		if err := s.medicines.DeductStockTx(tx, medicineID, -delta); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return &OutOfStockError{
					MedicineID: medicineID.String(),
					Medicine:   m.Name,
					Requested:  -delta,
					Available:  m.Quantity,
				}
			}
			return err
		}
	} else {
		if err := s.medicines.RestoreStockTx(tx, medicineID, delta); err != nil {
			return err
		}
	}

	return s.movements.CreateTx(tx, &model.StockMovement{
		MedicineID:     medicineID,
		Type:           movementType,
		Quantity:       delta,
		QuantityBefore: m.Quantity,
		QuantityAfter:  m.Quantity + delta,
		Reason:         reason,
		ReferenceID:    referenceID,
	})
}

func (s *stockService) AdjustManual(ctx context.Context, medicineID uuid.UUID, delta int, reason string) (*model.Medicine, error) {
	if delta == 0 {
		return nil, ErrInvalidQuantity
	}
	err := runTx(ctx, s.medicines.DB(), func(tx *gorm.DB) error {
		return s.ApplyDeltaTx(ctx, tx, medicineID, delta, model.MovementManualAdjust, reason, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.medicines.FindByID(ctx, medicineID)
}

func (s *stockService) ListMovements(ctx context.Context, filter repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return s.movements.List(ctx, filter)
}
