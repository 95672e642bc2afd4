package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// errorMapping binds a domain error to its HTTP status. gate is set for the
// errors raised by an authorization gate.
type errorMapping struct {
	target error
	code   int
	gate   string
	reason string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "", ""},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication", "missing_token"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "authentication", "invalid_token"},
	{domain.ErrAccountDeactivated, http.StatusUnauthorized, "authentication", "deactivated"},
	{domain.ErrInsufficientRole, http.StatusForbidden, "role", "insufficient_role"},
	{domain.ErrTenantNotLinked, http.StatusForbidden, "ownership", "tenant_not_linked"},
	{domain.ErrOwnershipMismatch, http.StatusForbidden, "ownership", "ownership_mismatch"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "", ""},
	{domain.ErrInvalidTenantReference, http.StatusBadRequest, "", ""},
	{domain.ErrIncorrectPassword, http.StatusBadRequest, "", ""},
	{domain.ErrInvalidRole, http.StatusBadRequest, "", ""},
	{domain.ErrUserNotFound, http.StatusNotFound, "", ""},
	{domain.ErrClientNotFound, http.StatusNotFound, "", ""},
	{domain.ErrProjectNotFound, http.StatusNotFound, "", ""},
	{domain.ErrVendorNotFound, http.StatusNotFound, "", ""},
	{domain.ErrNotFound, http.StatusNotFound, "", ""},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Counts rejections raised by the authorization gates.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, unknown routes, validation).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.gate != "" {
				metrics.GateRejectionsTotal.WithLabelValues(m.gate, m.reason).Inc()
			}
			return m.code, m.target.Error()
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
