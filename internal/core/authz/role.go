package authz

import (
	"slices"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// RequireRole accepts p when allowed is empty or contains p's role.
func RequireRole(p domain.Principal, allowed ...domain.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, p.Role()) {
		return nil
	}
	return domain.ErrInsufficientRole
}
