package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomStringChars is the default alphabet for RandomString.
// With 62 characters, a 32-character string carries ~190 bits of entropy.
const RandomStringChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// secretKeyChars is the extended alphabet used for application secret keys.
const secretKeyChars = "abcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*(-_=+)"

// RandomString returns a string of length characters drawn uniformly and
// independently from allowedChars using crypto/rand. Each character is picked
// with rand.Int so the distribution stays uniform for any alphabet size.
//
// Returns ErrInvalidParameter if length is less than 1 or allowedChars is
// empty. A failure of the system random source is wrapped and returned;
// callers should treat it as fatal, it is never retried here.
func RandomString(length int, allowedChars string) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("%w: length must be at least 1", ErrInvalidParameter)
	}
	if allowedChars == "" {
		return "", fmt.Errorf("%w: allowed characters must not be empty", ErrInvalidParameter)
	}

	result := make([]byte, length)
	charsLen := big.NewInt(int64(len(allowedChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to read from random source: %w", err)
		}
		result[i] = allowedChars[n.Int64()]
	}

	return string(result), nil
}

// RandomSecretKey returns a random string of length characters from an
// extended alphabet (lowercase letters, digits, punctuation subset) suitable
// as an application secret key. A length of 50 gives ~280 bits of entropy.
func RandomSecretKey(length int) (string, error) {
	return RandomString(length, secretKeyChars)
}
