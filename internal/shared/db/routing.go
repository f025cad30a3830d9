// Package db provides the data-access routing layer: every unit of work is
// directed to the primary store or a read replica based on a routing
// directive carried in its context, plus transaction management.
package db

import "context"

// Directive classifies a unit of work's consistency requirement.
type Directive int

const (
	// DirectiveReadWrite routes to the primary. It is the default: an
	// undeclared or ambiguous operation must not risk reading stale data on
	// a write path.
	DirectiveReadWrite Directive = iota
	// DirectiveReadOnly routes to the replica, which may lag the primary.
	DirectiveReadOnly
)

func (d Directive) String() string {
	if d == DirectiveReadOnly {
		return "read-only"
	}
	return "read-write"
}

type directiveKey struct{}

// WithReadOnly returns a context whose unit of work is declared read-only.
// The directive lives only in the derived context: once the unit of work
// returns, the caller's context is untouched, so a routing decision can never
// leak into unrelated work.
func WithReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, directiveKey{}, DirectiveReadOnly)
}

// WithReadWrite explicitly pins a unit of work to the primary. Callers that
// need strict read-after-write consistency use this inside an otherwise
// read-only scope.
func WithReadWrite(ctx context.Context) context.Context {
	return context.WithValue(ctx, directiveKey{}, DirectiveReadWrite)
}

// DirectiveFromContext returns the routing directive in effect, defaulting
// to read-write.
func DirectiveFromContext(ctx context.Context) Directive {
	if d, ok := ctx.Value(directiveKey{}).(Directive); ok {
		return d
	}
	return DirectiveReadWrite
}
