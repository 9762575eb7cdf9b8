// Package session issues and verifies signed session tokens.
package session

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/crypto"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// Token errors. Both unwrap to apperrors.ErrUnauthorized so handlers map
// them to 401 without inspecting the session package.
var (
	// ErrTokenInvalid indicates the token is malformed or its signature does not match.
	ErrTokenInvalid = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid session token")

	// ErrTokenExpired indicates the token signature is valid but the token has expired.
	ErrTokenExpired = apperrors.Wrap(apperrors.ErrUnauthorized, "expired session token")
)

// signerKeySalt namespaces the derived signing key so session signatures can
// never be confused with other keyed hashes produced from the same secret.
var signerKeySalt = []byte("session-signer-v1")

// Signer issues and verifies session tokens signed with a keyed hash derived
// from the application secret. Tokens are self-contained: user ID and expiry
// travel in the payload and are covered by the signature, so verification
// needs no storage lookup.
type Signer struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewSigner creates a Signer. The secret must not be empty and the expiration
// must be positive.
func NewSigner(secret string, expiration time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, apperrors.New("a signing secret is required")
	}
	if expiration <= 0 {
		return nil, apperrors.New("token expiration must be positive")
	}

	return &Signer{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token for the user and returns it with its expiry.
func (s *Signer) Issue(userID uuid.UUID) (string, time.Time, error) {
	expiresAt := s.now().Add(s.expiration).Truncate(time.Second)
	payload := userID.String() + ":" + strconv.FormatInt(expiresAt.Unix(), 10)

	signature, err := s.sign(payload)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign session token")
	}

	token := base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + base64.RawURLEncoding.EncodeToString(signature)
	return token, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the user ID.
func (s *Signer) Verify(token string) (uuid.UUID, error) {
	encodedPayload, encodedSignature, found := strings.Cut(token, ".")
	if !found {
		return uuid.Nil, ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	expectedSignature, err := s.sign(string(payload))
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to verify session token")
	}
	if !crypto.ConstantTimeCompare(signature, expectedSignature) {
		return uuid.Nil, ErrTokenInvalid
	}

	// The payload is authenticated at this point; parse user ID and expiry.
	rawUserID, rawExpiry, found := strings.Cut(string(payload), ":")
	if !found {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	expiresAt, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	if s.now().After(time.Unix(expiresAt, 0)) {
		return uuid.Nil, ErrTokenExpired
	}
	return userID, nil
}

// sign computes the keyed hash of payload under the namespaced signing key.
func (s *Signer) sign(payload string) ([]byte, error) {
	return crypto.SaltedHMAC(signerKeySalt, []byte(payload), s.secret, crypto.SHA256)
}
