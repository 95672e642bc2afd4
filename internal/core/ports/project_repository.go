package ports

import (
	"context"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

// ProjectRepository persists projects.
type ProjectRepository interface {
	// Create assigns p.ID and inserts the project.
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id int64) (*domain.Project, error)
	// List returns one page of projects matching filter, newest first, and the
	// total count of the filtered set.
	List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error)
	Update(ctx context.Context, id int64, upd domain.ProjectUpdate) (*domain.Project, error)
}
