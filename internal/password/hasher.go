package password

import "fmt"

// Hasher is implemented by each password hashing scheme. Implementations are
// stateless after construction and safe for concurrent use.
type Hasher interface {
	// Hash encodes password into a self-describing hash string with a fresh
	// random salt. Two calls with the same password produce different output.
	Hash(password []byte) (string, error)

	// Verify reports whether password matches the encoded hash. Returns an
	// error wrapping ErrMalformedHash when encoded cannot be parsed.
	// All digest comparisons are constant time.
	Verify(password []byte, encoded string) (bool, error)

	// Scheme returns the scheme implemented by this hasher.
	Scheme() Scheme
}

// newHasher creates the hasher for a scheme.
func newHasher(scheme Scheme) (Hasher, error) {
	switch scheme {
	case SchemeArgon2id:
		return newArgon2idHasher()
	case SchemeBcrypt:
		return newBcryptHasher(), nil
	case SchemePBKDF2SHA256:
		return newPBKDF2Hasher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, string(scheme))
	}
}
