package crypto

import (
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultPBKDF2Iterations is the recommended iteration count for
// PBKDF2-HMAC-SHA256 password storage (OWASP 2023 guidance).
const DefaultPBKDF2Iterations = 600000

// PBKDF2 derives a key of keyLen bytes from password and salt using
// PBKDF2-HMAC with the given algorithm and iteration count. A keyLen of 0
// selects the digest's natural output size.
//
// Deterministic: identical inputs always produce identical output. Returns
// ErrInvalidParameter for iterations < 1 or keyLen < 0 rather than silently
// producing a weak key, and ErrInvalidAlgorithm for an unsupported algorithm.
func PBKDF2(password, salt []byte, iterations, keyLen int, algorithm Algorithm) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1", ErrInvalidParameter)
	}
	if keyLen < 0 {
		return nil, fmt.Errorf("%w: key length must not be negative", ErrInvalidParameter)
	}

	hashFunc, err := algorithm.New()
	if err != nil {
		return nil, err
	}

	if keyLen == 0 {
		keyLen = hashFunc().Size()
	}

	return pbkdf2.Key(password, salt, iterations, keyLen, hashFunc), nil
}
