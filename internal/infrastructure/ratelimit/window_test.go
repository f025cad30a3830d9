package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets the tests drive window rollover without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestWindowLimiter_PerTenantLimit(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 5,
		GlobalPerWindow:    1000,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result := limiter.Admit(ctx, "uni_abc")
		assert.True(t, result.Allowed, "request %d should be admitted", i+1)
	}

	result := limiter.Admit(ctx, "uni_abc")
	require.False(t, result.Allowed)
	assert.Equal(t, ScopeTenant, result.Scope)
	assert.Equal(t, 60, result.RetryAfter)
}

func TestWindowLimiter_TenantsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 3,
		GlobalPerWindow:    1000,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	}
	require.False(t, limiter.Admit(ctx, "uni_abc").Allowed)

	// Another tenant is unaffected by uni_abc's exhaustion.
	assert.True(t, limiter.Admit(ctx, "uni_xyz").Allowed)
}

func TestWindowLimiter_GlobalLimitBlocksFreshTenant(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 100,
		GlobalPerWindow:    4,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	}

	// A tenant that has made no requests at all is still rejected once the
	// global budget is spent.
	result := limiter.Admit(ctx, "uni_fresh")
	require.False(t, result.Allowed)
	assert.Equal(t, ScopeGlobal, result.Scope)
	assert.Equal(t, 60, result.RetryAfter)
}

func TestWindowLimiter_RejectionDoesNotConsumeBudget(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 1,
		GlobalPerWindow:    10,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	for i := 0; i < 8; i++ {
		require.False(t, limiter.Admit(ctx, "uni_abc").Allowed)
	}

	// The rejected requests above must not have eaten into the global
	// budget: nine other tenants still fit.
	for i := 0; i < 9; i++ {
		tenant := string(rune('a'+i)) + "_uni"
		assert.True(t, limiter.Admit(ctx, tenant).Allowed, "tenant %s", tenant)
	}
}

func TestWindowLimiter_WindowRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 2,
		GlobalPerWindow:    3,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	require.False(t, limiter.Admit(ctx, "uni_abc").Allowed)

	// One second before the boundary nothing resets.
	clock.Advance(59 * time.Second)
	require.False(t, limiter.Admit(ctx, "uni_abc").Allowed)

	// Crossing the boundary resets both scopes.
	clock.Advance(2 * time.Second)
	assert.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	assert.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	result := limiter.Admit(ctx, "uni_abc")
	assert.False(t, result.Allowed)
	assert.Equal(t, ScopeTenant, result.Scope)
}

func TestWindowLimiter_GlobalResetOnRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 10,
		GlobalPerWindow:    2,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	require.True(t, limiter.Admit(ctx, "uni_xyz").Allowed)
	require.False(t, limiter.Admit(ctx, "uni_new").Allowed)

	clock.Advance(61 * time.Second)
	assert.True(t, limiter.Admit(ctx, "uni_new").Allowed)
}

func TestWindowLimiter_ZeroLimitsDisableChecks(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 0,
		GlobalPerWindow:    0,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
	}
}

func TestWindowLimiter_ConcurrentAdmits(t *testing.T) {
	const (
		workers   = 16
		perWorker = 200
		limit     = 500
	)

	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: limit,
		GlobalPerWindow:    0,
		WindowSeconds:      60,
	}, clock.Now)
	ctx := context.Background()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if limiter.Admit(ctx, "uni_abc").Allowed {
					admitted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	// The limit check and increment are not one atomic step, so a burst can
	// slightly overshoot; it must never undershoot and the overshoot is
	// bounded by the number of concurrent callers.
	total := admitted.Load()
	assert.GreaterOrEqual(t, total, int64(limit))
	assert.LessOrEqual(t, total, int64(limit+workers))
}

func TestWindowLimiter_ConcurrentRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := newWindowLimiter(Config{
		PerTenantPerWindow: 100,
		GlobalPerWindow:    1000,
		WindowSeconds:      1,
	}, clock.Now)
	ctx := context.Background()

	// Hammer the limiter while the clock keeps crossing window boundaries;
	// this is a race-detector test more than an assertion test.
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				limiter.Admit(ctx, "uni_abc")
				if i%50 == 0 && n == 0 {
					clock.Advance(2 * time.Second)
				}
			}
		}(w)
	}
	wg.Wait()

	clock.Advance(2 * time.Second)
	assert.True(t, limiter.Admit(ctx, "uni_abc").Allowed)
}
