package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "backoffice-timing-equalizer"

// AuthService implements registration, login and bearer verification.
type AuthService struct {
	users   ports.UserRepository
	clients ports.ClientRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenCodec
	status  ports.AccountStatusReader
	log     zerolog.Logger
	now     func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithStrictRevocation makes VerifyBearer re-check the account's active flag on
// every request. Without it a deactivated account's token stays valid until expiry.
func WithStrictRevocation(status ports.AccountStatusReader) AuthOption {
	return func(s *AuthService) { s.status = status }
}

// WithAuthClock replaces time.Now for record timestamps.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:   users,
		clients: clients,
		hasher:  hasher,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StrictRevocation reports whether VerifyBearer consults the account status.
func (s *AuthService) StrictRevocation() bool { return s.status != nil }

// Register creates an account and signs its first token. The token is signed
// before the record is written so a signing failure leaves no orphan user.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	res, err := s.register(ctx, in)
	metrics.AuthAttemptsTotal.WithLabelValues("register", outcome(err)).Inc()
	return res, err
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if in.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, *in.ClientID); err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return nil, domain.ErrInvalidTenantReference
			}
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.users.NextID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           id,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		ClientID:     in.ClientID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	token, err := s.tokens.Sign(domain.ClaimsFor(user))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, Principal: user.Principal()}, nil
}

// Login checks the email/password pair. Unknown email and wrong password both
// yield ErrInvalidCredentials; a deactivated account is reported only after the
// password has been proven.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	res, err := s.login(ctx, email, password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
	return res, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.equalizeTiming(ctx, password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Warn().Int64("user_id", user.ID).Msg("stored password digest could not be compared")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	token, err := s.tokens.Sign(domain.ClaimsFor(user))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, Principal: user.Principal()}, nil
}

func (s *AuthService) equalizeTiming(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(context.Background(), dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("timing equalizer hash unavailable")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
	}
}

// VerifyBearer turns a raw bearer token into a Principal. With strict
// revocation enabled the account must still exist and be active.
func (s *AuthService) VerifyBearer(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	if s.status != nil {
		active, err := s.status.IsActive(ctx, claims.Subject)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return domain.Principal{}, domain.ErrInvalidToken
		case err != nil:
			return domain.Principal{}, err
		case !active:
			return domain.Principal{}, domain.ErrAccountDeactivated
		}
	}

	return claims.Principal(), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrInvalidTenantReference):
		return "invalid_tenant"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	default:
		return "error"
	}
}
