package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/authz"
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

// ProjectService applies tenant scoping to project operations. Existence is
// always resolved before ownership so an absent project is a 404 for everyone.
type ProjectService struct {
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	vendors  ports.VendorService
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	clients ports.ClientRepository,
	vendors ports.VendorService,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, clients: clients, vendors: vendors, log: log}
}

func (s *ProjectService) Create(ctx context.Context, p domain.Principal, in ports.CreateProjectInput) (*domain.Project, error) {
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrInvalidTenantReference
		}
		return nil, err
	}
	if err := authz.CheckOwnership(p, in.ClientID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.ProjectActive
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ClientID:       in.ClientID,
		Country:        in.Country,
		ServicesNeeded: slices.Clone(in.ServicesNeeded),
		Budget:         in.Budget,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if project.ServicesNeeded == nil {
		project.ServicesNeeded = []string{}
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.log.Error().Err(err).Int64("client_id", in.ClientID).Msg("failed to create project")
		return nil, err
	}

	metrics.ProjectsCreatedTotal.WithLabelValues(string(project.Status)).Inc()
	s.log.Info().Int64("project_id", project.ID).Int64("client_id", project.ClientID).Msg("project created")
	return project, nil
}

// List returns one page of projects. CLIENT principals only ever see their own
// tenant's projects whatever client filter they pass.
func (s *ProjectService) List(ctx context.Context, p domain.Principal, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	scope, err := authz.TenantScope(p, in.ClientID)
	if err != nil {
		return nil, err
	}

	page := domain.NewPage(in.Page.Number, in.Page.Limit)
	items, total, err := s.projects.List(ctx, domain.ProjectFilter{
		ClientID: scope,
		Status:   in.Status,
		Country:  in.Country,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListProjectsResult{Items: items, Meta: page.Meta(total)}, nil
}

func (s *ProjectService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckResource(p, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, p domain.Principal, id int64, upd domain.ProjectUpdate) (*domain.Project, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.projects.Update(ctx, id, upd)
}

// Cancel soft-deletes a project by moving it to CANCELLED.
func (s *ProjectService) Cancel(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	cancelled := domain.ProjectCancelled
	if _, err := s.projects.Update(ctx, id, domain.ProjectUpdate{Status: &cancelled}); err != nil {
		return err
	}
	s.log.Info().Int64("project_id", id).Msg("project cancelled")
	return nil
}

// MatchVendors suggests vendors for a project the principal may see.
func (s *ProjectService) MatchVendors(ctx context.Context, p domain.Principal, id int64) ([]domain.VendorMatch, error) {
	project, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.vendors.ForProject(ctx, project.Country, project.ServicesNeeded)
}
