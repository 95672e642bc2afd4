package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/backoffice-api/internal/core/authz"
	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// BearerVerifier turns a raw bearer token into a Principal.
type BearerVerifier interface {
	VerifyBearer(ctx context.Context, token string) (domain.Principal, error)
}

// Authenticate verifies the Authorization header and stores the resulting
// Principal in the request context.
func Authenticate(verifier BearerVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.ErrUnauthenticated
			}

			scheme, token, ok := strings.Cut(header, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return domain.ErrInvalidToken
			}

			req := c.Request()
			principal, err := verifier.VerifyBearer(req.Context(), token)
			if err != nil {
				return err
			}

			c.SetRequest(req.WithContext(authz.WithPrincipal(req.Context(), principal)))
			return next(c)
		}
	}
}
