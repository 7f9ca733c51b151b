package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	appsettings "github.com/saebakery/backend/internal/application/settings"
	"github.com/saebakery/backend/internal/domain/shared/strategy"
	"go.uber.org/zap"
)

const (
	methodCacheKey        = "setting:inventory_method"
	defaultMethodCacheTTL = time.Hour
)

// RedisConfig holds Redis connection settings for the cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisMethodCache caches the active costing method in Redis. Only the
// method value is ever cached; batch quantities are always read fresh under
// lock by the consumption path.
type RedisMethodCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisMethodCacheOption is a functional option for configuring the cache
type RedisMethodCacheOption func(*RedisMethodCache)

// WithTTL sets the cache entry lifetime
func WithTTL(ttl time.Duration) RedisMethodCacheOption {
	return func(c *RedisMethodCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisMethodCacheOption {
	return func(c *RedisMethodCache) {
		c.logger = logger
	}
}

// NewRedisMethodCache creates a cache with its own Redis client
func NewRedisMethodCache(cfg RedisConfig, opts ...RedisMethodCacheOption) (*RedisMethodCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisMethodCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultMethodCacheTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisMethodCacheWithClient creates a cache over an existing client.
// The caller retains ownership of the client and closes it.
func NewRedisMethodCacheWithClient(client *redis.Client, opts ...RedisMethodCacheOption) *RedisMethodCache {
	cache := &RedisMethodCache{
		client: client,
		ttl:    defaultMethodCacheTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// GetMethod returns the cached costing method and whether a value was present
func (c *RedisMethodCache) GetMethod(ctx context.Context) (strategy.CostMethod, bool, error) {
	value, err := c.client.Get(ctx, methodCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strategy.ParseCostMethod(value), true, nil
}

// SetMethod stores the costing method
func (c *RedisMethodCache) SetMethod(ctx context.Context, method strategy.CostMethod) error {
	return c.client.Set(ctx, methodCacheKey, method.String(), c.ttl).Err()
}

// Invalidate drops the cached method
func (c *RedisMethodCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, methodCacheKey).Err()
}

// Close releases the Redis client if the cache owns it
func (c *RedisMethodCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisMethodCache implements the settings service cache contract
var _ appsettings.MethodCache = (*RedisMethodCache)(nil)
