package ratelimit

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisLimiter_PerTenantLimit(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, Config{
		PerTenantPerWindow: 5,
		GlobalPerWindow:    1000,
		WindowSeconds:      60,
	}, logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result := limiter.Admit(ctx, "uni_abc")
		require.True(t, result.Allowed, "request %d should be admitted", i+1)
	}

	result := limiter.Admit(ctx, "uni_abc")
	require.False(t, result.Allowed)
	assert.Equal(t, ScopeTenant, result.Scope)
	assert.Equal(t, 60, result.RetryAfter)

	// Another tenant is unaffected.
	assert.True(t, limiter.Admit(ctx, "uni_xyz").Allowed)
}

func TestRedisLimiter_GlobalLimit(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, Config{
		PerTenantPerWindow: 100,
		GlobalPerWindow:    3,
		WindowSeconds:      60,
	}, logger.NewLogger())
	ctx := context.Background()

	require.True(t, limiter.Admit(ctx, "uni_a").Allowed)
	require.True(t, limiter.Admit(ctx, "uni_b").Allowed)
	require.True(t, limiter.Admit(ctx, "uni_c").Allowed)

	result := limiter.Admit(ctx, "uni_fresh")
	require.False(t, result.Allowed)
	assert.Equal(t, ScopeGlobal, result.Scope)
}

func TestRedisLimiter_FailsOpenWithoutRedis(t *testing.T) {
	// Deliberately unreachable address: the limiter must admit rather than
	// block all traffic on a Redis outage.
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	defer client.Close()

	limiter := NewRedisLimiter(client, Config{
		PerTenantPerWindow: 1,
		GlobalPerWindow:    1,
		WindowSeconds:      60,
	}, logger.NewLogger())

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Admit(context.Background(), "uni_abc").Allowed)
	}
}
