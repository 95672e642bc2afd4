package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

var fixedNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newCodec(t *testing.T, now time.Time) *JWTCodec {
	t.Helper()
	c, err := NewJWTCodec("test-secret", time.Hour, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func int64Ptr(v int64) *int64 { return &v }

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, fixedNow)

	cases := []domain.Claims{
		{Subject: 1, Email: "root@x.com", Role: domain.RoleAdmin},
		{Subject: 42, Email: "a@x.com", Role: domain.RoleClient, ClientID: int64Ptr(5)},
	}

	for _, in := range cases {
		in.IssuedAt = fixedNow.Add(-time.Minute)
		in.ExpiresAt = fixedNow.Add(30 * time.Minute)

		tok, err := codec.Sign(in)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}

		out, err := codec.Verify(tok)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if out.Subject != in.Subject || out.Email != in.Email || out.Role != in.Role {
			t.Fatalf("identity mismatch: got %+v want %+v", out, in)
		}
		if (out.ClientID == nil) != (in.ClientID == nil) || (in.ClientID != nil && *out.ClientID != *in.ClientID) {
			t.Fatalf("client id mismatch: got %v want %v", out.ClientID, in.ClientID)
		}
		if !out.IssuedAt.Equal(in.IssuedAt) || !out.ExpiresAt.Equal(in.ExpiresAt) {
			t.Fatalf("window mismatch: got %v-%v want %v-%v", out.IssuedAt, out.ExpiresAt, in.IssuedAt, in.ExpiresAt)
		}
	}
}

func TestJWTCodec_SignFillsValidityWindow(t *testing.T) {
	codec := newCodec(t, fixedNow)

	tok, err := codec.Sign(domain.Claims{Subject: 7, Email: "b@x.com", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	out, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.IssuedAt.Equal(fixedNow) {
		t.Errorf("issuedAt = %v, want %v", out.IssuedAt, fixedNow)
	}
	if !out.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want %v", out.ExpiresAt, fixedNow.Add(time.Hour))
	}
}

func TestJWTCodec_SubSecondClockRoundTripsExactly(t *testing.T) {
	now := fixedNow.Add(123456789 * time.Nanosecond)
	codec := newCodec(t, now)

	tok, err := codec.Sign(domain.Claims{Subject: 7, Email: "b@x.com", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	out, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.IssuedAt.Equal(fixedNow) {
		t.Errorf("issuedAt = %v, want %v", out.IssuedAt, fixedNow)
	}
	if !out.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Errorf("expiresAt = %v, want %v", out.ExpiresAt, fixedNow.Add(time.Hour))
	}

	// Re-signing the verified claims yields the same claims back.
	again, err := codec.Sign(out)
	if err != nil {
		t.Fatalf("re-sign: %v", err)
	}
	back, err := codec.Verify(again)
	if err != nil {
		t.Fatalf("re-verify: %v", err)
	}
	if !back.IssuedAt.Equal(out.IssuedAt) || !back.ExpiresAt.Equal(out.ExpiresAt) {
		t.Errorf("window drifted: %v-%v, want %v-%v", back.IssuedAt, back.ExpiresAt, out.IssuedAt, out.ExpiresAt)
	}
}

func TestJWTCodec_Expired(t *testing.T) {
	signer := newCodec(t, fixedNow.Add(-2*time.Hour))
	tok, err := signer.Sign(domain.Claims{Subject: 1, Email: "a@x.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	verifier := newCodec(t, fixedNow)
	if _, err := verifier.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTCodec_BitFlip(t *testing.T) {
	codec := newCodec(t, fixedNow)
	tok, err := codec.Sign(domain.Claims{Subject: 3, Email: "c@x.com", Role: domain.RoleClient, ClientID: int64Ptr(9)})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// The final character of each segment may carry base64 padding bits that
	// a decoder ignores, so only fully significant characters are flipped.
	offset := 0
	for _, segment := range strings.Split(tok, ".") {
		for i := 0; i < len(segment)-1; i++ {
			b := []byte(tok)
			b[offset+i] ^= 0x01
			if _, err := codec.Verify(string(b)); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("flip at %d accepted (err=%v)", offset+i, err)
			}
		}
		offset += len(segment) + 1
	}
}

func TestJWTCodec_RejectsForeignTokens(t *testing.T) {
	codec := newCodec(t, fixedNow)
	exp := jwt.NewNumericDate(fixedNow.Add(time.Hour))
	iat := jwt.NewNumericDate(fixedNow)

	otherSecret, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "role": "ADMIN", "exp": exp, "iat": iat,
	}).SignedString([]byte("other-secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "role": "ADMIN", "iat": iat,
	}).SignedString([]byte("test-secret"))

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "role": "root", "exp": exp, "iat": iat,
	}).SignedString([]byte("test-secret"))

	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice", "role": "ADMIN", "exp": exp, "iat": iat,
	}).SignedString([]byte("test-secret"))

	otherAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "1", "role": "ADMIN", "exp": exp, "iat": iat,
	}).SignedString([]byte("test-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "role": "ADMIN", "exp": exp, "iat": iat,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tokens := map[string]string{
		"other secret": otherSecret,
		"no expiry":    noExpiry,
		"unknown role": badRole,
		"non-numeric":  badSubject,
		"other alg":    otherAlg,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
		"empty":        "",
		"two segments": "a.b",
	}
	for name, tok := range tokens {
		if _, err := codec.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestJWTCodec_Issuer(t *testing.T) {
	a, _ := NewJWTCodec("s", time.Hour, WithIssuer("backoffice"), WithClock(func() time.Time { return fixedNow }))
	b, _ := NewJWTCodec("s", time.Hour, WithIssuer("someone-else"), WithClock(func() time.Time { return fixedNow }))

	tok, err := b.Sign(domain.Claims{Subject: 1, Email: "a@x.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := a.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch to fail, got %v", err)
	}
}

func TestNewJWTCodec_EmptySecret(t *testing.T) {
	if _, err := NewJWTCodec("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
