package service

import (
	"errors"
	"fmt"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/finance"
	"github.com/woodfy/workshop-api/internal/store"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an entity references something that does not exist
	ErrConflict = errors.New("resource conflict")

	// ErrFieldLocked is returned when an edit touches a price held by an approved budget
	ErrFieldLocked = errors.New("field locked by an approved budget")

	// ErrUnsupportedKind is returned when an operation does not apply to a transaction kind
	ErrUnsupportedKind = errors.New("operation not supported for this transaction kind")

	// ErrNoValidPrice is returned when the pricing formula has no finite result
	ErrNoValidPrice = errors.New("no valid price for the given rates")

	// ErrUnavailable is returned when the snapshot could not be persisted
	ErrUnavailable = errors.New("storage unavailable")
)

// Per-entity not found errors. Each wraps ErrNotFound.
var (
	ErrProjectNotFound     = fmt.Errorf("project %w", ErrNotFound)
	ErrCostNotFound        = fmt.Errorf("cost %w", ErrNotFound)
	ErrRevenueNotFound     = fmt.Errorf("revenue %w", ErrNotFound)
	ErrExpenseNotFound     = fmt.Errorf("expense %w", ErrNotFound)
	ErrCustomerNotFound    = fmt.Errorf("customer %w", ErrNotFound)
	ErrSupplierNotFound    = fmt.Errorf("supplier %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", ErrNotFound)
	ErrBudgetItemNotFound  = fmt.Errorf("budget item %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrBackupNotFound      = fmt.Errorf("backup %w", ErrNotFound)
)

// translateError maps store, finance and form errors onto service errors so
// handlers only need to know this package.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrUnknownFormKind):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, store.ErrInvalidReference):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrPersist):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, finance.ErrPriceLocked):
		return fmt.Errorf("%w: %v", ErrFieldLocked, err)
	case errors.Is(err, finance.ErrNoValidPrice):
		return fmt.Errorf("%w: %v", ErrNoValidPrice, err)
	}
	return err
}
