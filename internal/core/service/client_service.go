package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/authz"
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

type ClientService struct {
	clients ports.ClientRepository
	log     zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, log: log}
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	now := time.Now().UTC()
	c := &domain.Client{
		CompanyName:  in.CompanyName,
		ContactEmail: in.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Msg("failed to create client")
		return nil, err
	}
	s.log.Info().Int64("client_id", c.ID).Msg("client created")
	return c, nil
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

// Get returns a client the principal may see: any for admins, only its own for CLIENT users.
func (s *ClientService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckResource(p, c); err != nil {
		return nil, err
	}
	return c, nil
}
