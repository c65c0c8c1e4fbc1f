package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopspire/backend/internal/domain"
)

// ErrCacheMiss is returned when the requested key is not cached
var ErrCacheMiss = errors.New("cache miss")

// RedisCache caches per-product review lists. Cached keys are tracked in a
// SET per model so invalidation never needs a SCAN.
type RedisCache struct {
	client         *redis.Client
	reviewsListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, reviewsListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		reviewsListTTL: reviewsListTTL,
	}
}

func (c *RedisCache) reviewsListKey(model string) string {
	return fmt.Sprintf("product:%s:reviews", model)
}

func (c *RedisCache) trackingKey(model string) string {
	return fmt.Sprintf("product:%s:cache_keys", model)
}

// GetReviewsList retrieves the cached review list for a product
func (c *RedisCache) GetReviewsList(ctx context.Context, model string) ([]*domain.Review, error) {
	val, err := c.client.Get(ctx, c.reviewsListKey(model)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var reviews []*domain.Review
	if err := json.Unmarshal([]byte(val), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// SetReviewsList stores the review list for a product and tracks the key
func (c *RedisCache) SetReviewsList(ctx context.Context, model string, reviews []*domain.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}

	key := c.reviewsListKey(model)
	tracking := c.trackingKey(model)

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.reviewsListTTL)
	pipe.SAdd(ctx, tracking, key)
	pipe.Expire(ctx, tracking, c.reviewsListTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateProduct removes every cached entry for a product
func (c *RedisCache) InvalidateProduct(ctx context.Context, model string) error {
	tracking := c.trackingKey(model)

	keys, err := c.client.SMembers(ctx, tracking).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if len(keys) > 0 {
		keys = append(keys, tracking)
		return c.client.Unlink(ctx, keys...).Err()
	}

	return nil
}

// InvalidateAll drops every cached review list
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}
