package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// CreateVendorInput carries the data for a new vendor.
type CreateVendorInput struct {
	Name               string
	CountriesSupported []string
	ServicesOffered    []string
	Rating             float64
	ResponseSLAHours   int
}

// SearchVendorsResult is one ranked page of vendors.
type SearchVendorsResult struct {
	Items []*domain.Vendor
	Meta  domain.PageMeta
}

// VendorService manages the global vendor catalogue. Role restrictions are
// enforced by the route policy, not here.
type VendorService interface {
	Create(ctx context.Context, in CreateVendorInput) (*domain.Vendor, error)
	Search(ctx context.Context, q domain.VendorQuery) (*SearchVendorsResult, error)
	Get(ctx context.Context, id int64) (*domain.Vendor, error)
	Update(ctx context.Context, id int64, upd domain.VendorUpdate) (*domain.Vendor, error)
	Delete(ctx context.Context, id int64) error
	// ForProject returns vendors supporting country with at least one of services.
	ForProject(ctx context.Context, country string, services []string) ([]domain.VendorMatch, error)
}
