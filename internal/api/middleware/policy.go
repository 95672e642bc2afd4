package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// Policy is the access metadata of one route.
// Ownership is checked later by the services, once the resource is loaded.
type Policy struct {
	// Public routes skip authentication and role checks. A bearer token sent
	// anyway is ignored and no Principal is attached.
	Public bool
	// AllowedRoles restricts an authenticated route; empty admits any role.
	AllowedRoles []domain.Role
}

var (
	PublicRoute   = Policy{Public: true}
	Authenticated = Policy{}
	AdminOnly     = Policy{AllowedRoles: []domain.Role{domain.RoleAdmin}}
)

// Guard builds the gate chain for p: authentication first, then roles.
func Guard(verifier BearerVerifier, p Policy) []echo.MiddlewareFunc {
	if p.Public {
		return nil
	}
	chain := []echo.MiddlewareFunc{Authenticate(verifier)}
	if len(p.AllowedRoles) > 0 {
		chain = append(chain, RequireRoles(p.AllowedRoles...))
	}
	return chain
}
