package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Context key type to avoid collisions
type contextKey string

const principalKey contextKey = "principal"

// AnonymousCaller is the caller identity logged when no authenticated
// principal is attached to the request.
const AnonymousCaller = "unauthenticated"

// Principal is the already-resolved current user attached to a request.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// WithPrincipal attaches a principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the principal, or nil when the request is
// unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	if val := ctx.Value(principalKey); val != nil {
		if p, ok := val.(*Principal); ok {
			return p
		}
	}
	return nil
}

// CallerID resolves the caller identity for log output. It never fails:
// absence of a principal yields the AnonymousCaller sentinel.
func CallerID(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.ID.String()
	}
	return AnonymousCaller
}
