// Package apperr defines the error kinds returned by the inventory core.
// Callers distinguish them with errors.As or the Is* helpers.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports caller input that fails a precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a missing pharmacy, medication or batch. Rows owned
// by another pharmacy are reported the same way.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InsufficientStockError reports a deduction larger than the batch holds.
type InsufficientStockError struct {
	BatchID   int64
	Requested int64
	Available int64
}

// Shortfall is how many units the request exceeded the stock by.
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock in batch %d: requested %d, available %d (short by %d)",
		e.BatchID, e.Requested, e.Available, e.Shortfall())
}

// StorageError wraps a persistence failure. Its message is deliberately
// generic; the cause is reachable through Unwrap for logging.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage failure"
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Validation returns a *ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound returns a *NotFoundError.
func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Storage wraps err as a *StorageError unless it is nil or already one of
// this package's kinds, in which case it is returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != KindUnknown {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Error kinds, used as metric labels and log attributes.
const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindInsufficientStock = "insufficient_stock"
	KindStorage           = "storage"
	KindUnknown           = "unknown"
)

// Kind classifies err. A nil error is "ok".
func Kind(err error) string {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
		storage      *StorageError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &insufficient):
		return KindInsufficientStock
	case errors.As(err, &storage):
		return KindStorage
	default:
		return KindUnknown
	}
}

func IsValidation(err error) bool { return Kind(err) == KindValidation }

func IsNotFound(err error) bool { return Kind(err) == KindNotFound }

func IsInsufficientStock(err error) bool { return Kind(err) == KindInsufficientStock }

func IsStorage(err error) bool { return Kind(err) == KindStorage }
