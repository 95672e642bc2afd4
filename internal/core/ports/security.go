package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// PasswordHasher is a slow, salted one-way hash with constant-time verification.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A non-nil error means the
	// comparison could not run (cancelled context, malformed digest).
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// TokenCodec signs claims into bearer tokens and verifies them back.
// Verify returns domain.ErrInvalidToken for every kind of failure.
type TokenCodec interface {
	Sign(claims domain.Claims) (string, error)
	Verify(token string) (domain.Claims, error)
}

// AccountStatusReader reports whether an account is currently active.
// Used only when strict revocation checking is enabled.
type AccountStatusReader interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// AccountStatusInvalidator drops any cached account status for a user.
type AccountStatusInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}
