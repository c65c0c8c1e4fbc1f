package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a referenced product model does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrExistingReview is returned when a (model, user) pair already has a review
	ErrExistingReview = errors.New("review already exists for this product and user")

	// ErrNoReviewForProduct is returned when no review exists for the given (model, user) pair
	ErrNoReviewForProduct = errors.New("no review found for this product and user")

	// ErrExistingProduct is returned when a catalog model is already taken
	ErrExistingProduct = errors.New("product model already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError classifies any persistence-layer failure that is not part of the
// domain vocabulary above. It carries the failing operation and wraps the
// underlying driver error so callers can still inspect the cause.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps an infrastructure error from the given store operation.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
