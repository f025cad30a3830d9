package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// WindowLimiter is the in-process limiter: one global counter plus lazily
// created per-tenant counters over a fixed wall-clock window. Increments are
// atomic and lock-free; the only mutual exclusion is the window rollover,
// which is triggered lazily by the first request observed after the window
// has elapsed. There is no background timer goroutine.
type WindowLimiter struct {
	cfg    Config
	window time.Duration
	now    func() time.Time

	// mu guards the rollover only. The hot path never takes it.
	mu          sync.Mutex
	windowStart atomic.Int64
	globalCount atomic.Int64
	tenants     atomic.Pointer[sync.Map]
}

func NewWindowLimiter(cfg Config) *WindowLimiter {
	return newWindowLimiter(cfg, time.Now)
}

func newWindowLimiter(cfg Config, now func() time.Time) *WindowLimiter {
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 60
	}
	l := &WindowLimiter{
		cfg:    cfg,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
		now:    now,
	}
	l.windowStart.Store(now().UnixNano())
	l.tenants.Store(&sync.Map{})
	return l
}

// Admit decides whether one request for tenantID may proceed. The global
// limit is checked first: it protects the whole system even when every
// individual tenant is compliant. Counters are incremented only when the
// request is admitted.
func (l *WindowLimiter) Admit(_ context.Context, tenantID string) Result {
	l.maybeRoll()

	if l.cfg.GlobalPerWindow > 0 && l.globalCount.Load() >= l.cfg.GlobalPerWindow {
		return l.rejected(ScopeGlobal)
	}

	counter := l.tenantCounter(tenantID)
	if l.cfg.PerTenantPerWindow > 0 && counter.Load() >= l.cfg.PerTenantPerWindow {
		return l.rejected(ScopeTenant)
	}

	l.globalCount.Add(1)
	counter.Add(1)
	return Result{Allowed: true}
}

// maybeRoll resets all counters when the window has elapsed. The check is
// done twice: once without the lock so admitted requests in a live window
// never contend, and again inside the lock so only one caller performs the
// reset.
func (l *WindowLimiter) maybeRoll() {
	now := l.now().UnixNano()
	if now-l.windowStart.Load() < int64(l.window) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if now-l.windowStart.Load() < int64(l.window) {
		// Another caller already rolled the window.
		return
	}

	l.tenants.Store(&sync.Map{})
	l.globalCount.Store(0)
	l.windowStart.Store(now)
}

func (l *WindowLimiter) tenantCounter(tenantID string) *atomic.Int64 {
	tenants := l.tenants.Load()
	if counter, ok := tenants.Load(tenantID); ok {
		return counter.(*atomic.Int64)
	}
	counter, _ := tenants.LoadOrStore(tenantID, &atomic.Int64{})
	return counter.(*atomic.Int64)
}

func (l *WindowLimiter) rejected(scope Scope) Result {
	return Result{
		Allowed:    false,
		Scope:      scope,
		RetryAfter: l.cfg.WindowSeconds,
	}
}
