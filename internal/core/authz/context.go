package authz

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal on ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom retrieves the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(domain.Principal)
	return p, ok
}
