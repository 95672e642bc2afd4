package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// ClientRepository persists tenants. FindByID returns domain.ErrClientNotFound when absent.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}
