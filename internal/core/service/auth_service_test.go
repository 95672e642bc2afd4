package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
)

func TestAuthService_Register_DefaultsToClientRole(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected a token")
	}
	if res.Principal.Role() != domain.RoleClient {
		t.Errorf("role = %s, want CLIENT", res.Principal.Role())
	}
	if _, linked := res.Principal.ClientID(); linked {
		t.Error("expected no client binding")
	}

	stored, err := f.store.Users().FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if stored.PasswordHash == "secret1" || !stored.IsActive {
		t.Errorf("unexpected stored user: %+v", stored)
	}
	if stored.ID != res.Principal.ID() {
		t.Errorf("principal id %d != stored id %d", res.Principal.ID(), stored.ID)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, ports.RegisterInput{Email: "a@x.com", Password: "p1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.auth.Register(ctx, ports.RegisterInput{Email: "a@x.com", Password: "p2"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	users, _ := f.store.Users().List(ctx, true)
	if len(users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(users))
	}
}

func TestAuthService_Register_TenantReference(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t, "Acme")

	_, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Email: "b@x.com", Password: "p", ClientID: int64Ptr(client.ID + 100),
	})
	if !errors.Is(err, domain.ErrInvalidTenantReference) {
		t.Fatalf("expected ErrInvalidTenantReference, got %v", err)
	}

	res, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Email: "c@x.com", Password: "p", ClientID: int64Ptr(client.ID),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id, ok := res.Principal.ClientID(); !ok || id != client.ID {
		t.Fatalf("client binding = %d,%v; want %d", id, ok, client.ID)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Password: "p", Role: "root"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Register_SigningFailureLeavesNoUser(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.store.Users(), f.store.Clients(), f.hasher, failingSigner{}, zerolog.Nop())

	if _, err := auth.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Password: "p"}); err == nil {
		t.Fatal("expected signing error")
	}
	if _, err := f.store.Users().FindByEmail(context.Background(), "a@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user must not be persisted, got %v", err)
	}
}

func TestAuthService_Register_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.auth.Register(ctx, ports.RegisterInput{Email: "a@x.com", Password: "p"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := f.store.Users().FindByEmail(context.Background(), "a@x.com"); err == nil {
		t.Fatal("no user may be persisted after cancellation")
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	client := f.seedClient(t, "Acme")
	u := f.seedUser(t, "a@x.com", "secret1", domain.RoleClient, int64Ptr(client.ID), true)
	f.seedUser(t, "off@x.com", "secret1", domain.RoleClient, nil, false)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "a@x.com", "secret1", nil},
		{"wrong password", "a@x.com", "nope", domain.ErrInvalidCredentials},
		{"unknown email", "ghost@x.com", "secret1", domain.ErrInvalidCredentials},
		{"email is case-sensitive", "A@x.com", "secret1", domain.ErrInvalidCredentials},
		{"deactivated with right password", "off@x.com", "secret1", domain.ErrAccountDeactivated},
		{"deactivated with wrong password", "off@x.com", "nope", domain.ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.auth.Login(context.Background(), tc.email, tc.password)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}

			p, err := f.auth.VerifyBearer(context.Background(), res.Token)
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if p.ID() != u.ID || p.Role() != u.Role {
				t.Fatalf("principal mismatch: %+v", p)
			}
			if id, ok := p.ClientID(); !ok || id != client.ID {
				t.Fatalf("client binding = %d,%v", id, ok)
			}
		})
	}
}

func TestAuthService_Login_UnknownEmailCostsOneComparison(t *testing.T) {
	f := newFixture(t)

	_, _ = f.auth.Login(context.Background(), "ghost@x.com", "pwd")
	if got := f.hasher.verifies.Load(); got != 1 {
		t.Fatalf("verify calls = %d, want 1", got)
	}
}

func TestAuthService_VerifyBearer_Garbage(t *testing.T) {
	f := newFixture(t)
	if _, err := f.auth.VerifyBearer(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_StrictRevocation(t *testing.T) {
	ctx := context.Background()

	lenient := newFixture(t)
	strict := newFixture(t)
	strict.auth = NewAuthService(strict.store.Users(), strict.store.Clients(), strict.hasher, newCodec(t),
		zerolog.Nop(), WithStrictRevocation(strict.store.Users()))

	for _, f := range []*fixture{lenient, strict} {
		u := f.seedUser(t, "a@x.com", "pw", domain.RoleAdmin, nil, true)
		res, err := f.auth.Login(ctx, "a@x.com", "pw")
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		inactive := false
		if _, err := f.store.Users().Update(ctx, u.ID, domain.UserUpdate{IsActive: &inactive}); err != nil {
			t.Fatalf("deactivate: %v", err)
		}

		_, err = f.auth.VerifyBearer(ctx, res.Token)
		if f.auth.StrictRevocation() {
			if !errors.Is(err, domain.ErrAccountDeactivated) {
				t.Fatalf("strict: expected ErrAccountDeactivated, got %v", err)
			}
		} else if err != nil {
			t.Fatalf("lenient: token must stay valid until expiry, got %v", err)
		}
	}
}
