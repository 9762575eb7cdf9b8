package password

import (
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// argon2idHasher implements Hasher using Argon2id via go-pwdhash.
// Uses the interactive policy, tuned for login-path latency.
type argon2idHasher struct {
	hasher *pwdhash.PasswordHasher
}

func newArgon2idHasher() (Hasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create argon2id hasher")
	}
	return &argon2idHasher{hasher: hasher}, nil
}

// Hash encodes password as an Argon2id PHC string with a fresh salt.
func (h *argon2idHasher) Hash(password []byte) (string, error) {
	encoded, err := h.hasher.Hash(password)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password with argon2id")
	}
	return encoded, nil
}

// Verify checks password against an Argon2id PHC string.
func (h *argon2idHasher) Verify(password []byte, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, "$argon2id$") {
		return false, fmt.Errorf("%w: not an argon2id hash", ErrMalformedHash)
	}

	ok, err := h.hasher.Verify(password, encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return ok, nil
}

func (h *argon2idHasher) Scheme() Scheme {
	return SchemeArgon2id
}
