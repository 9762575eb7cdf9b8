// Package password provides multi-scheme password hashing with deprecation
// and transparent hash upgrades. A Manager holds an ordered list of accepted
// schemes; the first is used for new hashes and the rest are verified-only so
// stored hashes can be migrated on login.
package password

import (
	"errors"
	"strings"
)

// Scheme identifies a password hashing algorithm and parameter set. The set
// is a closed enumeration selected via explicit switches, so schemes cannot
// be injected at runtime.
type Scheme string

// Supported password hashing schemes.
const (
	// SchemeArgon2id is the preferred scheme for new hashes.
	SchemeArgon2id Scheme = "argon2id"
	// SchemeBcrypt is accepted for verifying hashes from older deployments.
	SchemeBcrypt Scheme = "bcrypt"
	// SchemePBKDF2SHA256 is accepted for verifying Django-format hashes
	// imported from the previous stack.
	SchemePBKDF2SHA256 Scheme = "pbkdf2_sha256"
)

// Sentinel errors returned by the password hashing operations.
var (
	// ErrUnknownScheme indicates an encoded hash produced by a scheme that is
	// not in the manager's accepted list.
	ErrUnknownScheme = errors.New("unknown password hashing scheme")

	// ErrMalformedHash indicates an encoded hash that cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
)

// DetectScheme inspects an encoded hash and returns the scheme that produced
// it. The second return value is false when the format is not recognised.
func DetectScheme(encoded string) (Scheme, bool) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return SchemeArgon2id, true
	// bcrypt hashes start with $2a$, $2b$, or $2y$
	case strings.HasPrefix(encoded, "$2a$"),
		strings.HasPrefix(encoded, "$2b$"),
		strings.HasPrefix(encoded, "$2y$"):
		return SchemeBcrypt, true
	case strings.HasPrefix(encoded, "pbkdf2_sha256$"):
		return SchemePBKDF2SHA256, true
	default:
		return "", false
	}
}
