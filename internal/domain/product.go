package domain

import (
	"context"
	"time"
)

// Product represents a catalog entry. The unique model string is the
// identifier the review subsystem references; reviews never mutate products.
type Product struct {
	Model        string    `json:"model" db:"model" validate:"required,min=1,max=255"`
	Name         string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Price        float64   `json:"price" db:"price" validate:"required,gte=0"`
	AverageScore float64   `json:"average_score" db:"average_score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByModel retrieves a product by its model string
	GetByModel(ctx context.Context, model string) (*Product, error)

	// List retrieves a paginated list of products
	List(ctx context.Context, limit, offset int) ([]*Product, error)

	// Delete removes a product from the catalog
	Delete(ctx context.Context, model string) error

	// Count returns the total number of products
	Count(ctx context.Context) (int, error)
}
