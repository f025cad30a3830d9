package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus/internal/shared/logger"
)

// RedisLimiter enforces the same tenant/global fixed-window limits through a
// shared Redis, so multiple instances of the backend see one set of counters.
// Each counter key is bucketed by window number and expires with the window.
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
	window time.Duration
	logger logger.Interface
}

func NewRedisLimiter(client *redis.Client, cfg Config, log logger.Interface) *RedisLimiter {
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 60
	}
	return &RedisLimiter{
		client: client,
		cfg:    cfg,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
		logger: log,
	}
}

// Admit checks the global counter first, then the tenant counter, and
// increments both only when the request is admitted. If Redis is unreachable
// the request is allowed: losing rate limiting briefly is better than
// blocking all traffic.
func (l *RedisLimiter) Admit(ctx context.Context, tenantID string) Result {
	bucket := time.Now().Unix() / int64(l.cfg.WindowSeconds)
	globalKey := fmt.Sprintf("ratelimit:global:%d", bucket)
	tenantKey := fmt.Sprintf("ratelimit:tenant:%s:%d", tenantID, bucket)

	globalCount, err := l.client.Get(ctx, globalKey).Int64()
	if err != nil && err != redis.Nil {
		l.logger.Warnw("rate limiter redis unavailable, admitting request", "error", err)
		return Result{Allowed: true}
	}
	if l.cfg.GlobalPerWindow > 0 && globalCount >= l.cfg.GlobalPerWindow {
		return l.rejected(ScopeGlobal)
	}

	tenantCount, err := l.client.Get(ctx, tenantKey).Int64()
	if err != nil && err != redis.Nil {
		l.logger.Warnw("rate limiter redis unavailable, admitting request", "error", err)
		return Result{Allowed: true}
	}
	if l.cfg.PerTenantPerWindow > 0 && tenantCount >= l.cfg.PerTenantPerWindow {
		return l.rejected(ScopeTenant)
	}

	pipe := l.client.Pipeline()
	globalIncr := pipe.Incr(ctx, globalKey)
	tenantIncr := pipe.Incr(ctx, tenantKey)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warnw("rate limiter redis increment failed, admitting request", "error", err)
		return Result{Allowed: true}
	}

	// First increment in a window sets the key's TTL.
	if globalIncr.Val() == 1 {
		l.client.Expire(ctx, globalKey, l.window+time.Second)
	}
	if tenantIncr.Val() == 1 {
		l.client.Expire(ctx, tenantKey, l.window+time.Second)
	}

	return Result{Allowed: true}
}

func (l *RedisLimiter) rejected(scope Scope) Result {
	return Result{
		Allowed:    false,
		Scope:      scope,
		RetryAfter: l.cfg.WindowSeconds,
	}
}
