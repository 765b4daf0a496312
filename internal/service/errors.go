package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all services. Handlers map them to HTTP statuses
// with errors.Is / errors.As; messages are safe to show to callers.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativePrice   = errors.New("unit price must not be negative")
)

// OutOfStockError reports exactly which medicine blocked a stock-mutating
// operation, with the requested vs. available quantities, so the caller can
// render an actionable message.
type OutOfStockError struct {
	MedicineID string
	Medicine   string
	Requested  int
	Available  int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Medicine, e.Requested, e.Available)
}

// IsOutOfStock reports whether err is (or wraps) an OutOfStockError.
func IsOutOfStock(err error) bool {
	var oos *OutOfStockError
	return errors.As(err, &oos)
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
