// Package redis provides the Redis-backed cache repository
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheRepository implements the cache repository interface on a Redis client
type CacheRepository struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// NewCacheRepository creates a new cache repository. Every key is stored
// under prefix.
func NewCacheRepository(client redis.UniversalClient, prefix string, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-cache"),
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value; absent keys return outbound.ErrCacheMiss
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		r.logger.Debug("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}
