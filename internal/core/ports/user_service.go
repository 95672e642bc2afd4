package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// UserService covers account administration.
type UserService interface {
	List(ctx context.Context, includeInactive bool) ([]*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, p domain.Principal, current, next string) error
}
