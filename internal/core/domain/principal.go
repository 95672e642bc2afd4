package domain

import "time"

// Principal is the verified identity attached to a single request.
// Fields are unexported so a Principal can be copied freely without being mutated.
type Principal struct {
	id       int64
	email    string
	role     Role
	clientID int64
	linked   bool
}

// NewPrincipal builds a Principal. clientID is copied; nil means no tenant binding.
func NewPrincipal(id int64, email string, role Role, clientID *int64) Principal {
	p := Principal{id: id, email: email, role: role}
	if clientID != nil {
		p.clientID = *clientID
		p.linked = true
	}
	return p
}

func (p Principal) ID() int64     { return p.id }
func (p Principal) Email() string { return p.email }
func (p Principal) Role() Role    { return p.role }
func (p Principal) IsAdmin() bool { return p.role == RoleAdmin }

// ClientID returns the tenant the principal is bound to and whether it is bound at all.
func (p Principal) ClientID() (int64, bool) {
	return p.clientID, p.linked
}

// ClientIDPtr returns a fresh pointer to the tenant id, or nil when unbound.
func (p Principal) ClientIDPtr() *int64 {
	if !p.linked {
		return nil
	}
	id := p.clientID
	return &id
}

// Claims is the payload carried inside a bearer token.
type Claims struct {
	Subject   int64
	Email     string
	Role      Role
	ClientID  *int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ClaimsFor returns the identity part of the claims for u; the token codec fills the validity window.
func ClaimsFor(u *User) Claims {
	c := Claims{Subject: u.ID, Email: u.Email, Role: u.Role}
	if u.ClientID != nil {
		id := *u.ClientID
		c.ClientID = &id
	}
	return c
}

// Principal converts verified claims into a request identity.
func (c Claims) Principal() Principal {
	return NewPrincipal(c.Subject, c.Email, c.Role, c.ClientID)
}
