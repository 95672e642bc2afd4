package authz

import "github.com/99minutos/backoffice-api/internal/core/domain"

// Owned is any resource scoped to a single tenant.
type Owned interface {
	OwnerClientID() int64
}

// CheckOwnership applies the tenant rule, in order:
//  1. ADMIN is always accepted.
//  2. A CLIENT with no tenant binding is rejected with ErrTenantNotLinked.
//  3. A CLIENT bound to another tenant is rejected with ErrOwnershipMismatch.
//
// Any other role is rejected with ErrInsufficientRole.
func CheckOwnership(p domain.Principal, ownerClientID int64) error {
	switch p.Role() {
	case domain.RoleAdmin:
		return nil
	case domain.RoleClient:
		clientID, linked := p.ClientID()
		if !linked {
			return domain.ErrTenantNotLinked
		}
		if clientID != ownerClientID {
			return domain.ErrOwnershipMismatch
		}
		return nil
	default:
		return domain.ErrInsufficientRole
	}
}

// CheckResource is CheckOwnership for a resource already loaded from the store.
func CheckResource(p domain.Principal, r Owned) error {
	return CheckOwnership(p, r.OwnerClientID())
}

// TenantScope returns the tenant a listing must be restricted to. Admins get
// requested back unchanged (nil meaning every tenant); clients always get their
// own tenant regardless of requested.
func TenantScope(p domain.Principal, requested *int64) (*int64, error) {
	switch p.Role() {
	case domain.RoleAdmin:
		return requested, nil
	case domain.RoleClient:
		if _, linked := p.ClientID(); !linked {
			return nil, domain.ErrTenantNotLinked
		}
		return p.ClientIDPtr(), nil
	default:
		return nil, domain.ErrInsufficientRole
	}
}
