package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shopspire/backend/internal/domain"
)

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (model, name, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING average_score, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Model,
		product.Name,
		product.Description,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.AverageScore,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrExistingProduct
		}
		return domain.NewStoreError("insert product", err)
	}

	return nil
}

// GetByModel retrieves a product by its model string
func (r *ProductRepository) GetByModel(ctx context.Context, model string) (*domain.Product, error) {
	query := `
		SELECT model, name, description, price, average_score, created_at, updated_at
		FROM products
		WHERE model = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, model)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.NewStoreError("select product", err)
	}

	return &product, nil
}

// List retrieves a paginated list of products
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT model, name, description, price, average_score, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, limit, offset); err != nil {
		return nil, domain.NewStoreError("select products", err)
	}

	return products, nil
}

// Delete removes a product from the catalog
func (r *ProductRepository) Delete(ctx context.Context, model string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE model = $1`, model)
	if err != nil {
		return domain.NewStoreError("delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("delete product", err)
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, domain.NewStoreError("count products", err)
	}

	return count, nil
}
