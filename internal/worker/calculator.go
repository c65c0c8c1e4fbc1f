package worker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shopspire/backend/internal/pkg/logger"
)

// Calculator recomputes average review scores and writes them back to the
// catalog. Full recalculation from the reviews table keeps it idempotent.
type Calculator struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// NewCalculator creates a new score calculator
func NewCalculator(db *sqlx.DB, logger *logger.Logger) *Calculator {
	return &Calculator{
		db:     db,
		logger: logger,
	}
}

// CalculateAndUpdate recalculates the average score for one product
func (c *Calculator) CalculateAndUpdate(ctx context.Context, model string) error {
	query := `
		UPDATE products
		SET
			average_score = COALESCE(
				(SELECT ROUND(AVG(score)::numeric, 1)
				 FROM reviews
				 WHERE model = $1),
				0
			),
			updated_at = $2
		WHERE model = $1
	`

	result, err := c.db.ExecContext(ctx, query, model, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update product score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Product removed between event and processing, nothing to update
	if rowsAffected == 0 {
		c.logger.WithFields(map[string]interface{}{
			"model": model,
		}).Info("Product not found, skipping score update")
		return nil
	}

	c.logger.WithFields(map[string]interface{}{
		"model": model,
	}).Info("Updated product average score")

	return nil
}

// ResetAll zeroes every product's average score. Used after a global review
// purge, which carries no model to recalculate from.
func (c *Calculator) ResetAll(ctx context.Context) error {
	query := `UPDATE products SET average_score = 0, updated_at = $1`

	if _, err := c.db.ExecContext(ctx, query, time.Now()); err != nil {
		return fmt.Errorf("failed to reset product scores: %w", err)
	}

	c.logger.Info("Reset all product average scores")
	return nil
}

// GetCurrentScore retrieves the current average score for verification
func (c *Calculator) GetCurrentScore(ctx context.Context, model string) (float64, error) {
	var score sql.NullFloat64
	query := `SELECT average_score FROM products WHERE model = $1`

	if err := c.db.GetContext(ctx, &score, query, model); err != nil {
		return 0, fmt.Errorf("failed to get current score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return score.Float64, nil
}
