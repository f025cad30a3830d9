// Package ratelimit bounds request throughput per tenant and in aggregate,
// protecting shared infrastructure from any single university out of 200+
// sharing the deployment, and from overall burst load.
package ratelimit

import "context"

// Scope identifies which limit rejected a request.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeTenant Scope = "tenant"
)

// Result is the admission decision for one request.
type Result struct {
	Allowed bool
	// Scope is set on rejection to the limit that fired.
	Scope Scope
	// RetryAfter is the back-off hint in seconds. It is the window length,
	// not a precise remaining time: exact remaining time is not tracked per
	// counter.
	RetryAfter int
}

// Limiter admits or rejects a request for the given tenant. Implementations
// must be safe for arbitrary concurrent use.
type Limiter interface {
	Admit(ctx context.Context, tenantID string) Result
}

// Config holds the static limits. Limits are configuration-driven constants;
// a zero or negative limit disables that check.
type Config struct {
	PerTenantPerWindow int64
	GlobalPerWindow    int64
	WindowSeconds      int
}
