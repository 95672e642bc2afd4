package service

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

type VendorService struct {
	vendors ports.VendorRepository
	log     zerolog.Logger
}

func NewVendorService(vendors ports.VendorRepository, log zerolog.Logger) *VendorService {
	return &VendorService{vendors: vendors, log: log}
}

func (s *VendorService) Create(ctx context.Context, in ports.CreateVendorInput) (*domain.Vendor, error) {
	now := time.Now().UTC()
	v := &domain.Vendor{
		Name:               in.Name,
		CountriesSupported: nonNil(in.CountriesSupported),
		ServicesOffered:    nonNil(in.ServicesOffered),
		Rating:             in.Rating,
		ResponseSLAHours:   in.ResponseSLAHours,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.vendors.Create(ctx, v); err != nil {
		s.log.Error().Err(err).Msg("failed to create vendor")
		return nil, err
	}
	metrics.VendorsCreatedTotal.Inc()
	return v, nil
}

// Search filters the catalogue by every predicate of q, ranks the result and
// returns the requested page. Meta.Total counts the whole filtered set.
func (s *VendorService) Search(ctx context.Context, q domain.VendorQuery) (*ports.SearchVendorsResult, error) {
	candidates, err := s.vendors.Candidates(ctx, q)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Vendor, 0, len(candidates))
	for _, v := range candidates {
		if q.Matches(v) {
			matched = append(matched, v)
		}
	}
	rankVendors(matched)

	page := domain.NewPage(q.Page.Number, q.Page.Limit)
	start, end := page.Window(len(matched))
	return &ports.SearchVendorsResult{
		Items: matched[start:end],
		Meta:  page.Meta(int64(len(matched))),
	}, nil
}

func (s *VendorService) Get(ctx context.Context, id int64) (*domain.Vendor, error) {
	return s.vendors.FindByID(ctx, id)
}

func (s *VendorService) Update(ctx context.Context, id int64, upd domain.VendorUpdate) (*domain.Vendor, error) {
	return s.vendors.Update(ctx, id, upd)
}

func (s *VendorService) Delete(ctx context.Context, id int64) error {
	if err := s.vendors.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("vendor_id", id).Msg("vendor deleted")
	return nil
}

// ForProject returns vendors operating in country that offer at least one of
// services, in search ranking order.
func (s *VendorService) ForProject(ctx context.Context, country string, services []string) ([]domain.VendorMatch, error) {
	candidates, err := s.vendors.Candidates(ctx, domain.VendorQuery{})
	if err != nil {
		return nil, err
	}

	eligible := make([]*domain.Vendor, 0, len(candidates))
	for _, v := range candidates {
		if v.Supports(country) && v.ServiceOverlap(services) > 0 {
			eligible = append(eligible, v)
		}
	}
	rankVendors(eligible)

	matches := make([]domain.VendorMatch, 0, len(eligible))
	for _, v := range eligible {
		matches = append(matches, domain.VendorMatch{Vendor: v, Overlap: v.ServiceOverlap(services)})
	}
	return matches, nil
}

// rankVendors orders by rating descending, then SLA ascending, then newest first.
func rankVendors(vs []*domain.Vendor) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ResponseSLAHours != b.ResponseSLAHours {
			return a.ResponseSLAHours < b.ResponseSLAHours
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
