package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shopspire/backend/internal/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations
const uniqueViolation = pq.ErrorCode("23505")

// ReviewRepository implements domain.ReviewRepository for PostgreSQL.
// Every mutation is preceded by the existence checks that make failures
// classifiable; the unique index on (model, reviewer) remains the arbiter
// for concurrent creates.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// productExists reports whether the catalog contains the given model
func (r *ReviewRepository) productExists(ctx context.Context, model string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE model = $1)`
	if err := r.db.GetContext(ctx, &exists, query, model); err != nil {
		return false, err
	}
	return exists, nil
}

// reviewExists reports whether a review exists for the (model, user) pair
func (r *ReviewRepository) reviewExists(ctx context.Context, model, user string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE model = $1 AND reviewer = $2)`
	if err := r.db.GetContext(ctx, &exists, query, model, user); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new review once the referenced product is known to exist.
// A unique violation on insert reports domain.ErrExistingReview rather than
// the raw constraint error, so duplicate reviews stay distinguishable from
// infrastructure failures.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	exists, err := r.productExists(ctx, review.Model)
	if err != nil {
		return domain.NewStoreError("check product", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	query := `
		INSERT INTO reviews (model, reviewer, score, review_date, comment)
		VALUES ($1, $2, $3, $4::date, $5)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		review.Model,
		review.User,
		review.Score,
		review.Date,
		review.Comment,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrExistingReview
		}
		return domain.NewStoreError("insert review", err)
	}

	return nil
}

// GetByModel retrieves all reviews for a product in insertion order
func (r *ReviewRepository) GetByModel(ctx context.Context, model string) ([]*domain.Review, error) {
	exists, err := r.productExists(ctx, model)
	if err != nil {
		return nil, domain.NewStoreError("check product", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	query := `
		SELECT model, reviewer, score, to_char(review_date, 'YYYY-MM-DD') AS review_date, comment, created_at
		FROM reviews
		WHERE model = $1
		ORDER BY created_at
	`

	var reviews []*domain.Review
	if err := r.db.SelectContext(ctx, &reviews, query, model); err != nil {
		return nil, domain.NewStoreError("select reviews", err)
	}

	return reviews, nil
}

// Delete removes the review identified by (model, user)
func (r *ReviewRepository) Delete(ctx context.Context, model, user string) error {
	exists, err := r.productExists(ctx, model)
	if err != nil {
		return domain.NewStoreError("check product", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	found, err := r.reviewExists(ctx, model, user)
	if err != nil {
		return domain.NewStoreError("check review", err)
	}
	if !found {
		return domain.ErrNoReviewForProduct
	}

	query := `DELETE FROM reviews WHERE model = $1 AND reviewer = $2`
	if _, err := r.db.ExecContext(ctx, query, model, user); err != nil {
		return domain.NewStoreError("delete review", err)
	}

	return nil
}

// DeleteByModel removes all reviews for a product. A product with no
// reviews deletes trivially; only a missing product is an error.
func (r *ReviewRepository) DeleteByModel(ctx context.Context, model string) error {
	exists, err := r.productExists(ctx, model)
	if err != nil {
		return domain.NewStoreError("check product", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	query := `DELETE FROM reviews WHERE model = $1`
	if _, err := r.db.ExecContext(ctx, query, model); err != nil {
		return domain.NewStoreError("delete reviews", err)
	}

	return nil
}

// DeleteAll removes every review unconditionally
func (r *ReviewRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews`); err != nil {
		return domain.NewStoreError("delete all reviews", err)
	}

	return nil
}
