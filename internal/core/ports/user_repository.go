package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// UserRepository is the credential store. Lookups return domain.ErrUserNotFound
// when no record matches; FindByEmail is an exact, case-sensitive match that
// includes inactive accounts.
type UserRepository interface {
	// NextID reserves an id without creating a record.
	NextID(ctx context.Context) (int64, error)
	// Create inserts u with its pre-assigned id. A duplicate email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.User, error)
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
