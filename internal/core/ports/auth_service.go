package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// RegisterInput carries a registration request. Role defaults to CLIENT when empty.
type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
	ClientID *int64
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token     string
	Principal domain.Principal
}

// AuthService issues and verifies credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyBearer(ctx context.Context, token string) (domain.Principal, error)
}
