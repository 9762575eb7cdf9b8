// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/errors"
)

// User represents an account holder. PasswordHash carries the encoded
// password hash in its scheme's self-describing format. RecoveryCode holds
// the keeper-encrypted recovery code; it is never stored or logged in plain
// text.
type User struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	PasswordHash        string
	RecoveryCode        []byte
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked reports whether the account is locked out at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the email/password combination is wrong.
	// It deliberately does not reveal whether the account exists.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserLocked indicates the account is locked out after too many failed logins.
	ErrUserLocked = errors.Wrap(errors.ErrLocked, "user account is locked")

	// ErrInvalidRecoveryCode indicates the supplied recovery code does not match.
	ErrInvalidRecoveryCode = errors.Wrap(errors.ErrUnauthorized, "invalid recovery code")
)
