package domain

import "time"

// Role is the coarse permission level of an account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User models an account able to authenticate against the API.
// CLIENT users are expected to carry a ClientID; ADMIN users have no tenant scope.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ClientID     *int64    `json:"clientId,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal builds the request-scoped identity for u.
func (u *User) Principal() Principal {
	return NewPrincipal(u.ID, u.Email, u.Role, u.ClientID)
}

// UserUpdate carries the optional fields an administrator may change on a user.
type UserUpdate struct {
	Email    *string
	Role     *Role
	ClientID *int64
	IsActive *bool
}
