package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// CreateProjectInput carries the data for a new project. Status defaults to ACTIVE.
type CreateProjectInput struct {
	ClientID       int64
	Country        string
	ServicesNeeded []string
	Budget         float64
	Status         domain.ProjectStatus
}

// ListProjectsInput carries the caller-supplied listing predicates.
// ClientID is honoured only for administrators.
type ListProjectsInput struct {
	Status   domain.ProjectStatus
	Country  string
	ClientID *int64
	Page     domain.Page
}

// ListProjectsResult is one page of projects.
type ListProjectsResult struct {
	Items []*domain.Project
	Meta  domain.PageMeta
}

// ProjectService exposes tenant-scoped project operations. Every method takes
// the caller's Principal and applies the ownership rule after existence checks.
type ProjectService interface {
	Create(ctx context.Context, p domain.Principal, in CreateProjectInput) (*domain.Project, error)
	List(ctx context.Context, p domain.Principal, in ListProjectsInput) (*ListProjectsResult, error)
	Get(ctx context.Context, p domain.Principal, id int64) (*domain.Project, error)
	Update(ctx context.Context, p domain.Principal, id int64, upd domain.ProjectUpdate) (*domain.Project, error)
	Cancel(ctx context.Context, p domain.Principal, id int64) error
	MatchVendors(ctx context.Context, p domain.Principal, id int64) ([]domain.VendorMatch, error)
}
