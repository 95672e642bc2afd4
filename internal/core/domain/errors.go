package domain

import (
	"errors"
	"fmt"
)

// Credential errors.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDeactivated     = errors.New("account is deactivated")
	ErrDuplicateEmail         = errors.New("user with this email already exists")
	ErrInvalidTenantReference = errors.New("client not found")
	ErrIncorrectPassword      = errors.New("current password is incorrect")
	ErrInvalidRole            = errors.New("role must be either CLIENT or ADMIN")
)

// Gate errors.
var (
	ErrUnauthenticated   = errors.New("missing bearer token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrTenantNotLinked   = errors.New("client user not linked to a client account")
	ErrOwnershipMismatch = errors.New("access denied to resource not owned by your client")
)

// ErrNotFound is the root of every "resource absent" error.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrVendorNotFound  = fmt.Errorf("vendor %w", ErrNotFound)
)
