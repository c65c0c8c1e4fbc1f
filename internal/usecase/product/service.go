package product

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/shopspire/backend/internal/domain"
	"github.com/shopspire/backend/internal/pkg/logger"
)

// ReviewCache invalidates cached review lists when the catalog mutates
type ReviewCache interface {
	InvalidateProduct(ctx context.Context, model string) error
}

// Service handles catalog business logic
type Service struct {
	repo     domain.ProductRepository
	reviews  domain.ReviewRepository
	cache    ReviewCache
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new product service
func NewService(repo domain.ProductRepository, reviews domain.ReviewRepository, cache ReviewCache, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		reviews:  reviews,
		cache:    cache,
		validate: validator.New(),
		logger:   log,
	}
}

// Create adds a product to the catalog
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"model": product.Model,
		"name":  product.Name,
	}).Info("Product created successfully")

	return nil
}

// GetByModel retrieves a product by model
func (s *Service) GetByModel(ctx context.Context, model string) (*domain.Product, error) {
	product, err := s.repo.GetByModel(ctx, model)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Debugf("Product not found: %s", model)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// List retrieves a paginated list of products
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	return products, total, nil
}

// Delete removes a product and all of its reviews. Reviews go first so a
// failed catalog delete never leaves orphaned review rows.
func (s *Service) Delete(ctx context.Context, model string) error {
	if err := s.reviews.DeleteByModel(ctx, model); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Error("Failed to delete product reviews", err)
			return err
		}
		// Fall through so the catalog delete reports the missing product
	}

	// The cached review list is wrong the moment the reviews are gone,
	// regardless of how the catalog delete turns out
	if err := s.cache.InvalidateProduct(ctx, model); err != nil {
		s.logger.Warnf("Failed to invalidate cache for model %s: %v", model, err)
	}

	if err := s.repo.Delete(ctx, model); err != nil {
		s.logger.Error("Failed to delete product", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"model": model,
	}).Info("Product deleted successfully")

	return nil
}
