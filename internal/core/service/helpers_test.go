package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/infrastructure/db/memory"
	"github.com/99minutos/backoffice-api/internal/infrastructure/token"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubHasher is a transparent, fast stand-in for bcrypt.
type stubHasher struct {
	verifies atomic.Int32
	failHash error
}

func (h *stubHasher) Hash(_ context.Context, plaintext string) (string, error) {
	if h.failHash != nil {
		return "", h.failHash
	}
	return "hashed:" + plaintext, nil
}

func (h *stubHasher) Verify(_ context.Context, plaintext, digest string) (bool, error) {
	h.verifies.Add(1)
	if !strings.HasPrefix(digest, "hashed:") {
		return false, errors.New("malformed digest")
	}
	return digest == "hashed:"+plaintext, nil
}

type failingSigner struct{}

func (failingSigner) Sign(domain.Claims) (string, error) {
	return "", errors.New("signing unavailable")
}
func (failingSigner) Verify(string) (domain.Claims, error) {
	return domain.Claims{}, domain.ErrInvalidToken
}

type recordingInvalidator struct {
	ids []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, id int64) error {
	r.ids = append(r.ids, id)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func int64Ptr(v int64) *int64 { return &v }

func newCodec(t *testing.T) *token.JWTCodec {
	t.Helper()
	c, err := token.NewJWTCodec("service-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

type fixture struct {
	store  *memory.Store
	hasher *stubHasher
	auth   *AuthService
}

func newFixture(t *testing.T, opts ...AuthOption) *fixture {
	t.Helper()
	store := memory.NewStore()
	hasher := &stubHasher{}
	auth := NewAuthService(store.Users(), store.Clients(), hasher, newCodec(t), zerolog.Nop(), opts...)
	return &fixture{store: store, hasher: hasher, auth: auth}
}

func (f *fixture) seedClient(t *testing.T, name string) *domain.Client {
	t.Helper()
	c := &domain.Client{CompanyName: name, ContactEmail: strings.ToLower(name) + "@corp.com"}
	if err := f.store.Clients().Create(context.Background(), c); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func (f *fixture) seedUser(t *testing.T, email, password string, role domain.Role, clientID *int64, active bool) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        email,
		PasswordHash: "hashed:" + password,
		Role:         role,
		ClientID:     clientID,
		IsActive:     active,
	}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func admin() domain.Principal {
	return domain.NewPrincipal(1, "root@x.com", domain.RoleAdmin, nil)
}

func clientOf(id int64) domain.Principal {
	return domain.NewPrincipal(100+id, "c@x.com", domain.RoleClient, &id)
}
