package review

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspire/backend/internal/domain"
	"github.com/shopspire/backend/internal/pkg/logger"
	"github.com/shopspire/backend/internal/repository/cache"
)

// dateLayout is the wire format for review creation dates
const dateLayout = "2006-01-02"

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ReviewCache defines the review-list cache consumed by the service
type ReviewCache interface {
	GetReviewsList(ctx context.Context, model string) ([]*domain.Review, error)
	SetReviewsList(ctx context.Context, model string, reviews []*domain.Review) error
	InvalidateProduct(ctx context.Context, model string) error
	InvalidateAll(ctx context.Context) error
}

// ReviewEvent represents an event related to a review
type ReviewEvent struct {
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	Model     string         `json:"model"`
	Review    *domain.Review `json:"review,omitempty"`
}

// Service is the boundary-facing orchestration layer for reviews. It stamps
// creation dates and delegates to the repository; typed repository errors
// pass through unchanged. Cache invalidation and event publishing are
// best-effort side channels that never alter the returned outcome.
type Service struct {
	repo      domain.ReviewRepository
	cache     ReviewCache
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	repo domain.ReviewRepository,
	cache ReviewCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// AddReview stamps the current UTC date and creates the review
func (s *Service) AddReview(ctx context.Context, model, user string, score int, comment string) error {
	review := &domain.Review{
		Model:   model,
		User:    user,
		Score:   score,
		Date:    time.Now().UTC().Format(dateLayout),
		Comment: comment,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.logFailure("Failed to create review", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, model); err != nil {
		s.logger.Warnf("Failed to invalidate cache for model %s: %v", model, err)
	}

	s.publishEvent(ctx, "review.created", model, review)

	s.logger.WithFields(map[string]interface{}{
		"model": model,
		"user":  user,
		"score": score,
	}).Info("Review created successfully")

	return nil
}

// GetProductReviews returns all reviews for a product
func (s *Service) GetProductReviews(ctx context.Context, model string) ([]*domain.Review, error) {
	reviews, err := s.cache.GetReviewsList(ctx, model)
	if err == nil {
		s.logger.Debugf("Cache hit for model %s reviews", model)
		return reviews, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnf("Cache lookup failed for model %s: %v", model, err)
	}

	reviews, err = s.repo.GetByModel(ctx, model)
	if err != nil {
		s.logFailure("Failed to get reviews", err)
		return nil, err
	}

	if err := s.cache.SetReviewsList(ctx, model, reviews); err != nil {
		s.logger.Warnf("Failed to cache reviews for model %s: %v", model, err)
	}

	return reviews, nil
}

// DeleteReview removes one user's review of a product
func (s *Service) DeleteReview(ctx context.Context, model, user string) error {
	if err := s.repo.Delete(ctx, model, user); err != nil {
		s.logFailure("Failed to delete review", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, model); err != nil {
		s.logger.Warnf("Failed to invalidate cache for model %s: %v", model, err)
	}

	s.publishEvent(ctx, "review.deleted", model, &domain.Review{Model: model, User: user})

	s.logger.WithFields(map[string]interface{}{
		"model": model,
		"user":  user,
	}).Info("Review deleted successfully")

	return nil
}

// DeleteReviewsOfProduct removes all reviews for a product
func (s *Service) DeleteReviewsOfProduct(ctx context.Context, model string) error {
	if err := s.repo.DeleteByModel(ctx, model); err != nil {
		s.logFailure("Failed to delete reviews of product", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, model); err != nil {
		s.logger.Warnf("Failed to invalidate cache for model %s: %v", model, err)
	}

	s.publishEvent(ctx, "review.deleted", model, nil)

	s.logger.WithFields(map[string]interface{}{
		"model": model,
	}).Info("Product reviews deleted successfully")

	return nil
}

// DeleteAllReviews empties the review collection
func (s *Service) DeleteAllReviews(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logFailure("Failed to delete all reviews", err)
		return err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate review caches: %v", err)
	}

	s.publishEvent(ctx, "reviews.purged", "", nil)

	s.logger.Info("All reviews deleted successfully")

	return nil
}

// logFailure logs expected domain outcomes at debug and real failures at error
func (s *Service) logFailure(msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrExistingReview),
		errors.Is(err, domain.ErrNoReviewForProduct):
		s.logger.Debugf("%s: %v", msg, err)
	default:
		s.logger.Error(msg, err)
	}
}

// publishEvent publishes a review event (non-blocking)
func (s *Service) publishEvent(ctx context.Context, eventType, model string, rev *domain.Review) {
	event := ReviewEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		Model:     model,
		Review:    rev,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal %s event", eventType)
		return
	}

	// Publish in background to avoid blocking the request
	go func() {
		if err := s.publisher.Publish(context.Background(), "reviews.events", data); err != nil {
			s.logger.Errorf(err, "Failed to publish %s event", eventType)
		}
	}()
}
