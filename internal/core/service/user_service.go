package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

// UserService administers accounts. Every change that can affect a user's
// active flag drops the cached status so strict revocation sees it at once.
type UserService struct {
	users   ports.UserRepository
	clients ports.ClientRepository
	hasher  ports.PasswordHasher
	status  ports.AccountStatusInvalidator
	log     zerolog.Logger
}

// NewUserService builds a UserService. status may be nil when no status cache is in use.
func NewUserService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	hasher ports.PasswordHasher,
	status ports.AccountStatusInvalidator,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, clients: clients, hasher: hasher, status: status, log: log}
}

func (s *UserService) List(ctx context.Context, includeInactive bool) ([]*domain.User, error) {
	return s.users.List(ctx, includeInactive)
}

// Get returns an active user. Deactivated accounts are reported as not found.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Role != nil && !upd.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if upd.Email != nil && *upd.Email != current.Email {
		if _, err := s.users.FindByEmail(ctx, *upd.Email); err == nil {
			return nil, domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	if upd.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, *upd.ClientID); err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return nil, domain.ErrInvalidTenantReference
			}
			return nil, err
		}
	}

	updated, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Deactivate soft-deletes a user by clearing its active flag.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	if _, err := s.users.Update(ctx, id, domain.UserUpdate{IsActive: &inactive}); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}

// ChangePassword replaces the caller's own password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, p domain.Principal, current, next string) error {
	u, err := s.users.FindByID(ctx, p.ID())
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(ctx, current, u.PasswordHash)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.ErrIncorrectPassword
	}
	if !ok {
		return domain.ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(ctx, next)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, u.ID, hash)
}

func (s *UserService) invalidate(ctx context.Context, id int64) {
	if s.status == nil {
		return
	}
	if err := s.status.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("failed to invalidate account status")
	}
}
