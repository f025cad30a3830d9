package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Router selects the physical store for a unit of work. The choice is made
// at the moment a connection is actually required, not when the operation is
// declared: the router inspects the context's directive and applies the
// matching resolver clause.
//
// Failure semantics: the router has no fallback path. A primary outage fails
// every write; a replica outage fails read-only work and is an operational
// incident, not something the router silently reroutes around (rerouting
// would change the consistency guarantees read-heavy callers rely on).
// Storage errors are propagated to the caller untouched.
type Router struct {
	db      *gorm.DB
	enabled bool
}

// NewRouter wraps a gorm handle that has the resolver plugin registered.
// When enabled is false (or no replica is configured) everything goes to the
// primary.
func NewRouter(db *gorm.DB, enabled bool) *Router {
	return &Router{db: db, enabled: enabled}
}

// DB returns the handle for the current unit of work. A transaction already
// open in the context wins unconditionally: transactions are always pinned
// to the primary.
func (r *Router) DB(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	if !r.enabled {
		return r.db.WithContext(ctx)
	}
	if DirectiveFromContext(ctx) == DirectiveReadOnly {
		return r.db.Clauses(dbresolver.Read).WithContext(ctx)
	}
	return r.db.Clauses(dbresolver.Write).WithContext(ctx)
}

// RunReadOnly executes fn with a read-only routing directive. The directive
// is scoped to the derived context passed to fn and released when fn
// returns.
func (r *Router) RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(WithReadOnly(ctx))
}
