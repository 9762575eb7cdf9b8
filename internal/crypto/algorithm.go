// Package crypto provides the cryptographic utility set used across the
// application: secure random string generation, constant-time comparison,
// salted HMAC digests, and PBKDF2 key derivation.
//
// The password hashing schemes built on top of these utilities live in
// internal/password.
package crypto

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// Algorithm identifies a supported hash function. The set is a closed
// enumeration: algorithms are resolved via an explicit switch rather than a
// runtime registry, so an unsupported name can never reach a hash computation.
type Algorithm string

// Supported hash algorithms.
const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
)

// New returns the hash constructor for the algorithm.
// Returns ErrInvalidAlgorithm for anything outside the supported set.
func (a Algorithm) New() (func() hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, string(a))
	}
}

// Size returns the digest size in bytes for the algorithm.
func (a Algorithm) Size() (int, error) {
	h, err := a.New()
	if err != nil {
		return 0, err
	}
	return h().Size(), nil
}
