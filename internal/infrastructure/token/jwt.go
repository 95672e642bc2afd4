package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/backoffice-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// tokenClaims is the wire form of domain.Claims.
type tokenClaims struct {
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	ClientID *int64      `json:"clientId,omitempty"`
	jwt.RegisteredClaims
}

// JWTCodec signs and verifies HS256 bearer tokens. It is safe for concurrent use;
// the secret is never mutated after construction.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option customises a JWTCodec.
type Option func(*JWTCodec)

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(issuer string) Option {
	return func(c *JWTCodec) { c.issuer = issuer }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec returns a codec signing with secret. A non-positive ttl falls back to 24h.
func NewJWTCodec(secret string, ttl time.Duration, opts ...Option) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &JWTCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Sign encodes claims. A zero IssuedAt becomes now and a zero ExpiresAt becomes
// IssuedAt plus the configured TTL. Both are truncated to whole seconds, the
// resolution of a JWT NumericDate.
func (c *JWTCodec) Sign(claims domain.Claims) (string, error) {
	issued := claims.IssuedAt
	if issued.IsZero() {
		issued = c.now()
	}
	issued = issued.Truncate(time.Second)
	expires := claims.ExpiresAt
	if expires.IsZero() {
		expires = issued.Add(c.ttl)
	}
	expires = expires.Truncate(time.Second)

	tc := tokenClaims{
		Email:    claims.Email,
		Role:     claims.Role,
		ClientID: claims.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   strconv.FormatInt(claims.Subject, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(c.secret)
}

// Verify decodes token, checking signature, algorithm, expiry and shape.
// Every failure is reported as domain.ErrInvalidToken.
func (c *JWTCodec) Verify(token string) (domain.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	subject, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	if !tc.Role.Valid() || tc.IssuedAt == nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	return domain.Claims{
		Subject:   subject,
		Email:     tc.Email,
		Role:      tc.Role,
		ClientID:  tc.ClientID,
		IssuedAt:  tc.IssuedAt.Time.UTC(),
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}, nil
}
