package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// Validation
	ErrValidation      = errors.New("validation failed")
	ErrNotStockTracked = errors.New("product does not track stock")
	ErrInvalidMovement = errors.New("invalid stock movement")

	// NotFound
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrPurchaseNotFound = errors.New("purchase not found")

	// InsufficientStock
	ErrInsufficientStock = errors.New("insufficient stock")

	// Invariant violations
	ErrAlreadyPaid          = errors.New("invoice is already paid")
	ErrAmountExceedsDue     = errors.New("payment amount exceeds due amount")
	ErrNoOutstandingDue     = errors.New("customer has no outstanding due")
	ErrNoAssociatedCustomer = errors.New("invoice has no associated customer")
	ErrCustomerHasOrders    = errors.New("customer has orders and cannot be deleted")
	ErrDuplicateSKU         = errors.New("SKU already exists")
	ErrDuplicatePurchaseNo  = errors.New("purchase number already exists")
	ErrSupplierHasPurchases = errors.New("supplier has purchase history and cannot be deleted")

	// Conflict / transient
	ErrConflict         = errors.New("concurrent modification, retry the request")
	ErrDuplicateRequest = errors.New("request already processed")
)

// InsufficientStockError carries the numbers of a failed stock check
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// DuplicateRequestError is returned when an idempotency key is replayed
type DuplicateRequestError struct {
	Operation   string
	Key         string
	ReferenceID string
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("request %q for %s already processed (reference %s)", e.Key, e.Operation, e.ReferenceID)
}

func (e *DuplicateRequestError) Is(target error) bool {
	return target == ErrDuplicateRequest
}

// ErrorClass groups errors by how a caller should react to them
type ErrorClass int

const (
	ClassInternal ErrorClass = iota
	ClassValidation
	ClassNotFound
	ClassInsufficientStock
	ClassInvariant
	ClassConflict
)

func (c ErrorClass) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassNotFound:
		return "not_found"
	case ClassInsufficientStock:
		return "insufficient_stock"
	case ClassInvariant:
		return "invariant"
	case ClassConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Classify maps any error returned by the service layer to its class
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassInternal
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotStockTracked), errors.Is(err, ErrInvalidMovement):
		return ClassValidation
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrSupplierNotFound), errors.Is(err, ErrPurchaseNotFound):
		return ClassNotFound
	case errors.Is(err, ErrInsufficientStock):
		return ClassInsufficientStock
	case errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrAmountExceedsDue), errors.Is(err, ErrNoOutstandingDue),
		errors.Is(err, ErrNoAssociatedCustomer), errors.Is(err, ErrCustomerHasOrders), errors.Is(err, ErrDuplicateSKU),
		errors.Is(err, ErrDuplicatePurchaseNo), errors.Is(err, ErrSupplierHasPurchases):
		return ClassInvariant
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateRequest):
		return ClassConflict
	default:
		return ClassInternal
	}
}

// resultLabel is the metrics label for an operation outcome
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return Classify(err).String()
}

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
)

// translateDBError turns driver level failures into ledger errors. Errors that
// already belong to the ledger taxonomy pass through untouched.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if Classify(err) != ClassInternal {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			// SKU and purchase number come from the caller; a retry fails the same way
			switch pgErr.ConstraintName {
			case "ux_products_tenant_sku":
				return ErrDuplicateSKU
			case "ux_purchases_tenant_number":
				return ErrDuplicatePurchaseNo
			}
			// Generated numbers: a retry draws a new one
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrValidation, pgErr.Message)
		}
	}
	return err
}

// notFound maps gorm.ErrRecordNotFound to sentinel and translates anything else
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return translateDBError(err)
}

func validationError(errs []*validator.ErrorResponse) error {
	return fmt.Errorf("%w: %s", ErrValidation, validator.Summarize(errs))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
