package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// CreateClientInput carries the data for a new tenant.
type CreateClientInput struct {
	CompanyName  string
	ContactEmail string
}

// ClientService manages tenants.
type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Client, error)
}
