package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// VendorRepository persists vendors.
type VendorRepository interface {
	Create(ctx context.Context, v *domain.Vendor) error
	FindByID(ctx context.Context, id int64) (*domain.Vendor, error)
	// Candidates returns every vendor satisfying the scalar predicates of q
	// (search, minimum rating, maximum SLA). Array predicates, ranking and
	// pagination are the caller's job.
	Candidates(ctx context.Context, q domain.VendorQuery) ([]*domain.Vendor, error)
	Update(ctx context.Context, id int64, upd domain.VendorUpdate) (*domain.Vendor, error)
	Delete(ctx context.Context, id int64) error
}
