package product

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopspire/backend/internal/domain"
	"github.com/shopspire/backend/internal/pkg/logger"
	"github.com/shopspire/backend/internal/repository/cache"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByModel(ctx context.Context, model string) (*domain.Product, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, model string) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByModel(ctx context.Context, model string) ([]*domain.Review, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, model, user string) error {
	args := m.Called(ctx, model, user)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteByModel(ctx context.Context, model string) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockReviewCache is a mock implementation of ReviewCache
type MockReviewCache struct {
	mock.Mock
}

func (m *MockReviewCache) InvalidateProduct(ctx context.Context, model string) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func newTestService() (*Service, *MockProductRepository, *MockReviewRepository, *MockReviewCache) {
	mockRepo := new(MockProductRepository)
	mockReviews := new(MockReviewRepository)
	mockCache := new(MockReviewCache)
	return NewService(mockRepo, mockReviews, mockCache, logger.New("test")), mockRepo, mockReviews, mockCache
}

func TestService_Create_Success(t *testing.T) {
	service, mockRepo, _, _ := newTestService()

	product := &domain.Product{Model: "M1", Name: "Widget", Price: 9.99}
	mockRepo.On("Create", mock.Anything, product).Return(nil)

	err := service.Create(context.Background(), product)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_InvalidInput(t *testing.T) {
	service, mockRepo, _, _ := newTestService()

	// Missing name
	err := service.Create(context.Background(), &domain.Product{Model: "M1", Price: 1})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_GetByModel_NotFound(t *testing.T) {
	service, mockRepo, _, _ := newTestService()

	mockRepo.On("GetByModel", mock.Anything, "ghost").Return(nil, domain.ErrProductNotFound)

	product, err := service.GetByModel(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, product)
}

func TestService_List_ClampsPagination(t *testing.T) {
	service, mockRepo, _, _ := newTestService()

	products := []*domain.Product{{Model: "M1", Name: "Widget", Price: 1}}
	mockRepo.On("List", mock.Anything, 20, 0).Return(products, nil)
	mockRepo.On("Count", mock.Anything).Return(1, nil)

	got, total, err := service.List(context.Background(), 500, -3)

	assert.NoError(t, err)
	assert.Equal(t, products, got)
	assert.Equal(t, 1, total)
	mockRepo.AssertExpectations(t)
}

func TestService_Delete_RemovesReviewsFirst(t *testing.T) {
	service, mockRepo, mockReviews, mockCache := newTestService()

	mockReviews.On("DeleteByModel", mock.Anything, "M1").Return(nil)
	mockCache.On("InvalidateProduct", mock.Anything, "M1").Return(nil)
	mockRepo.On("Delete", mock.Anything, "M1").Return(nil)

	err := service.Delete(context.Background(), "M1")

	assert.NoError(t, err)
	mockReviews.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestService_Delete_InvalidatesReviewCache(t *testing.T) {
	service, mockRepo, mockReviews, mockCache := newTestService()

	mockReviews.On("DeleteByModel", mock.Anything, "M1").Return(nil)
	mockCache.On("InvalidateProduct", mock.Anything, "M1").Return(nil)
	mockRepo.On("Delete", mock.Anything, "M1").Return(nil)

	err := service.Delete(context.Background(), "M1")

	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestService_Delete_CacheFailureDoesNotFailDelete(t *testing.T) {
	service, mockRepo, mockReviews, mockCache := newTestService()

	mockReviews.On("DeleteByModel", mock.Anything, "M1").Return(nil)
	mockCache.On("InvalidateProduct", mock.Anything, "M1").Return(assert.AnError)
	mockRepo.On("Delete", mock.Anything, "M1").Return(nil)

	err := service.Delete(context.Background(), "M1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Delete_MissingProductReportedByCatalog(t *testing.T) {
	service, mockRepo, mockReviews, mockCache := newTestService()

	mockReviews.On("DeleteByModel", mock.Anything, "ghost").Return(domain.ErrProductNotFound)
	mockCache.On("InvalidateProduct", mock.Anything, "ghost").Return(nil)
	mockRepo.On("Delete", mock.Anything, "ghost").Return(domain.ErrProductNotFound)

	err := service.Delete(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// A cached review list must not survive the product it belongs to.
func TestService_Delete_DropsCachedReviewList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	reviewCache := cache.NewRedisCache(client, time.Minute)

	mockRepo := new(MockProductRepository)
	mockReviews := new(MockReviewRepository)
	service := NewService(mockRepo, mockReviews, reviewCache, logger.New("test"))

	ctx := context.Background()
	stored := []*domain.Review{{Model: "M1", User: "U1", Score: 5, Date: "2024-01-01"}}
	require.NoError(t, reviewCache.SetReviewsList(ctx, "M1", stored))

	mockReviews.On("DeleteByModel", mock.Anything, "M1").Return(nil)
	mockRepo.On("Delete", mock.Anything, "M1").Return(nil)

	require.NoError(t, service.Delete(ctx, "M1"))

	_, err := reviewCache.GetReviewsList(ctx, "M1")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
