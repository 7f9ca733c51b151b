package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUnreachableCache(opts ...RedisMethodCacheOption) *RedisMethodCache {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewRedisMethodCacheWithClient(client, opts...)
}

func TestNewRedisMethodCacheWithClient_Defaults(t *testing.T) {
	cache := newUnreachableCache()
	assert.Equal(t, defaultMethodCacheTTL, cache.ttl)
	assert.False(t, cache.ownsClient)
	assert.NotNil(t, cache.logger)
}

func TestRedisMethodCache_Options(t *testing.T) {
	logger := zap.NewNop()
	cache := newUnreachableCache(WithTTL(5*time.Minute), WithCacheLogger(logger))
	assert.Equal(t, 5*time.Minute, cache.ttl)
	assert.Same(t, logger, cache.logger)
}

func TestRedisMethodCache_ErrorsPropagate(t *testing.T) {
	// The settings service treats cache errors as misses and falls through to
	// the repository, so the cache must surface connection failures as errors
	// rather than swallowing them into a false hit.
	cache := newUnreachableCache()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok, err := cache.GetMethod(ctx)
	require.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, cache.SetMethod(ctx, "FIFO"))
	assert.Error(t, cache.Invalidate(ctx))
}

func TestRedisMethodCache_CloseLeavesBorrowedClientOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	cache := NewRedisMethodCacheWithClient(client)

	require.NoError(t, cache.Close())
	assert.NoError(t, client.Close(), "borrowed client is still the caller's to close")
}
