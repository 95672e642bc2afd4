package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/authz"
	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// RequireRoles enforces role-based access control on an authenticated request.
// An empty role list admits every authenticated principal.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := authz.PrincipalFrom(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if err := authz.RequireRole(p, allowed...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
