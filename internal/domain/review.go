package domain

import (
	"context"
	"time"
)

// Review represents one user's evaluation of one product. A (Model, User)
// pair identifies at most one review; the creation date is server-assigned
// and immutable.
type Review struct {
	Model     string    `json:"model" db:"model"`
	User      string    `json:"user" db:"reviewer"`
	Score     int       `json:"score" db:"score"`
	Date      string    `json:"date" db:"review_date"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// ReviewRepository defines the interface for review data access.
// Implementations own all error classification: every method resolves to nil,
// one of the sentinel errors, or a *StoreError wrapping the driver failure.
type ReviewRepository interface {
	// Create inserts a new review after verifying the product exists
	Create(ctx context.Context, review *Review) error

	// GetByModel retrieves all reviews for a product
	GetByModel(ctx context.Context, model string) ([]*Review, error)

	// Delete removes the review identified by (model, user)
	Delete(ctx context.Context, model, user string) error

	// DeleteByModel removes all reviews for a product; zero matches is success
	DeleteByModel(ctx context.Context, model string) error

	// DeleteAll removes every review unconditionally
	DeleteAll(ctx context.Context) error
}
