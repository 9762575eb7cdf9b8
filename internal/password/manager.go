package password

import (
	"context"
	"fmt"

	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/workerpool"
)

// Manager coordinates the accepted password hashing schemes. The first scheme
// in the list is preferred and used for all new hashes; the remaining schemes
// are deprecated, accepted only for verification so their hashes can be
// upgraded on the next successful login.
//
// The scheme list is read-only after construction, so all operations are safe
// for concurrent use. Hashing and verification are CPU-bound and run on the
// worker pool: the calling goroutine stays responsive to cancellation, and a
// cancelled call leaves the computation to finish in the background with its
// result discarded.
type Manager struct {
	hashers  []Hasher
	byScheme map[Scheme]Hasher
	pool     *workerpool.Pool
}

// NewManager creates a Manager accepting the given schemes in preference
// order. With no schemes, the manager accepts only SchemeArgon2id.
func NewManager(pool *workerpool.Pool, schemes ...Scheme) (*Manager, error) {
	if len(schemes) == 0 {
		schemes = []Scheme{SchemeArgon2id}
	}

	m := &Manager{
		hashers:  make([]Hasher, 0, len(schemes)),
		byScheme: make(map[Scheme]Hasher, len(schemes)),
		pool:     pool,
	}

	for _, scheme := range schemes {
		if _, exists := m.byScheme[scheme]; exists {
			return nil, fmt.Errorf("duplicate scheme %q", string(scheme))
		}
		hasher, err := newHasher(scheme)
		if err != nil {
			return nil, err
		}
		m.hashers = append(m.hashers, hasher)
		m.byScheme[scheme] = hasher
	}

	return m, nil
}

// PreferredScheme returns the scheme used for new hashes.
func (m *Manager) PreferredScheme() Scheme {
	return m.hashers[0].Scheme()
}

// Hash computes a hash of password using the preferred scheme.
func (m *Manager) Hash(ctx context.Context, password string) (string, error) {
	var encoded string
	err := m.pool.Submit(ctx, func() error {
		var hashErr error
		encoded, hashErr = m.hashers[0].Hash([]byte(password))
		return hashErr
	})
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// Verify reports whether password matches encoded. The scheme is read from
// the hash itself and must be in the accepted list.
func (m *Manager) Verify(ctx context.Context, password, encoded string) (bool, error) {
	hasher, err := m.resolve(encoded)
	if err != nil {
		return false, err
	}

	var matched bool
	err = m.pool.Submit(ctx, func() error {
		var verifyErr error
		matched, verifyErr = hasher.Verify([]byte(password), encoded)
		return verifyErr
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}

// VerifyAndUpdate verifies password against encoded and, when the hash was
// produced by a deprecated scheme and the password matched, returns a fresh
// hash under the preferred scheme for the caller to persist. An empty newHash
// means the stored hash is already current.
//
// An empty encoded hash is treated as a benign no-match, not an error, so
// authentication flows can burn a verification for unknown accounts without
// branching. Callers should still watch for it: a systematically absent hash
// usually means a misconfigured credential store.
func (m *Manager) VerifyAndUpdate(ctx context.Context, password, encoded string) (bool, string, error) {
	if encoded == "" {
		// Equalize response timing with the real verification path.
		_ = m.pool.Submit(ctx, func() error {
			_, _ = m.hashers[0].Hash([]byte(password))
			return nil
		})
		return false, "", nil
	}

	hasher, err := m.resolve(encoded)
	if err != nil {
		return false, "", err
	}

	var matched bool
	var newHash string
	err = m.pool.Submit(ctx, func() error {
		ok, verifyErr := hasher.Verify([]byte(password), encoded)
		if verifyErr != nil {
			return verifyErr
		}
		matched = ok
		if !ok || hasher.Scheme() == m.PreferredScheme() {
			return nil
		}

		upgraded, hashErr := m.hashers[0].Hash([]byte(password))
		if hashErr != nil {
			return apperrors.Wrap(hashErr, "failed to upgrade password hash")
		}
		newHash = upgraded
		return nil
	})
	if err != nil {
		return false, "", err
	}
	return matched, newHash, nil
}

// resolve finds the accepted hasher for an encoded hash.
func (m *Manager) resolve(encoded string) (Hasher, error) {
	scheme, ok := DetectScheme(encoded)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised hash format", ErrMalformedHash)
	}

	hasher, ok := m.byScheme[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not in the accepted scheme list", ErrUnknownScheme, string(scheme))
	}
	return hasher, nil
}
