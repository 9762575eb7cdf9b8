package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// bcryptCost exceeds the OWASP minimum of 10.
const bcryptCost = 12

// bcryptHasher implements Hasher using bcrypt. Kept for verifying hashes from
// deployments that predate the Argon2id default.
type bcryptHasher struct {
	cost int
}

func newBcryptHasher() Hasher {
	return &bcryptHasher{cost: bcryptCost}
}

// Hash encodes password as a bcrypt hash with a fresh salt.
func (h *bcryptHasher) Hash(password []byte) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password with bcrypt")
	}
	return string(encoded), nil
}

// Verify checks password against a bcrypt hash. bcrypt's comparison is
// constant time internally.
func (h *bcryptHasher) Verify(password []byte, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func (h *bcryptHasher) Scheme() Scheme {
	return SchemeBcrypt
}
