package crypto

import (
	"crypto/hmac"
	"fmt"
)

// SaltedHMAC returns the HMAC digest of value under a key derived from
// keySalt and secret: key = H(keySalt || secret), digest = HMAC(key, value).
//
// Deriving the HMAC key from the salt and the secret gives every call site
// with a distinct keySalt an effectively independent key even though the
// whole process shares a single secret, so a digest produced for one purpose
// can never be replayed for another.
//
// Returns ErrInvalidAlgorithm if algorithm is not in the supported set and
// ErrInvalidParameter if secret is empty. Deterministic for fixed inputs.
func SaltedHMAC(keySalt, value, secret []byte, algorithm Algorithm) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret must not be empty", ErrInvalidParameter)
	}

	hashFunc, err := algorithm.New()
	if err != nil {
		return nil, err
	}

	// Derive a per-purpose key from the salt and the shared secret.
	keyHasher := hashFunc()
	keyHasher.Write(keySalt)
	keyHasher.Write(secret)
	key := keyHasher.Sum(nil)
	defer Zero(key)

	mac := hmac.New(hashFunc, key)
	mac.Write(value)
	return mac.Sum(nil), nil
}
