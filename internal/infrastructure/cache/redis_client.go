// Package cache provides the Redis client and the caching decorator for
// external recipe catalog searches
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client and verifies the connection.
// Cluster mode is used when cluster nodes are configured.
func NewRedisClient(cfg *config.RedisConfig, logger *zap.Logger) (redis.UniversalClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	opts := &redis.UniversalOptions{
		Addrs:        []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Connection timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		ConnMaxIdleTime: time.Minute * 5,
		PoolTimeout:     time.Second * 10,
	}

	if cfg.EnableCluster && len(cfg.ClusterNodes) > 0 {
		opts.Addrs = cfg.ClusterNodes
		logger.Info("Redis cluster mode enabled", zap.Strings("nodes", cfg.ClusterNodes))
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.Strings("addrs", opts.Addrs),
		zap.Int("database", cfg.Database),
		zap.Bool("cluster_enabled", cfg.EnableCluster))

	return client, nil
}
