package password

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/allisson/credstore/internal/crypto"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// pbkdf2SaltLength is the salt length in characters (~130 bits with the
// default alphabet).
const pbkdf2SaltLength = 22

// pbkdf2Hasher implements Hasher using PBKDF2-HMAC-SHA256 with the
// Django-compatible encoding "pbkdf2_sha256$<iterations>$<salt>$<b64 digest>",
// so hashes imported from the previous stack verify unchanged.
type pbkdf2Hasher struct {
	iterations int
}

func newPBKDF2Hasher() Hasher {
	return &pbkdf2Hasher{iterations: crypto.DefaultPBKDF2Iterations}
}

// Hash encodes password with a fresh random salt.
func (h *pbkdf2Hasher) Hash(password []byte) (string, error) {
	salt, err := crypto.RandomString(pbkdf2SaltLength, crypto.RandomStringChars)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate pbkdf2 salt")
	}

	digest, err := crypto.PBKDF2(password, []byte(salt), h.iterations, 0, crypto.SHA256)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to derive pbkdf2 digest")
	}

	return fmt.Sprintf(
		"pbkdf2_sha256$%d$%s$%s",
		h.iterations,
		salt,
		base64.StdEncoding.EncodeToString(digest),
	), nil
}

// Verify re-derives the digest with the parameters embedded in encoded and
// compares in constant time.
func (h *pbkdf2Hasher) Verify(password []byte, encoded string) (bool, error) {
	iterations, salt, digest, err := parsePBKDF2Hash(encoded)
	if err != nil {
		return false, err
	}

	candidate, err := crypto.PBKDF2(password, []byte(salt), iterations, len(digest), crypto.SHA256)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to derive pbkdf2 digest")
	}

	return crypto.ConstantTimeCompare(candidate, digest), nil
}

func (h *pbkdf2Hasher) Scheme() Scheme {
	return SchemePBKDF2SHA256
}

// parsePBKDF2Hash splits "pbkdf2_sha256$<iterations>$<salt>$<b64 digest>".
func parsePBKDF2Hash(encoded string) (iterations int, salt string, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != "pbkdf2_sha256" {
		return 0, "", nil, fmt.Errorf("%w: expected pbkdf2_sha256$iterations$salt$digest", ErrMalformedHash)
	}

	iterations, err = strconv.Atoi(parts[1])
	if err != nil || iterations < 1 {
		return 0, "", nil, fmt.Errorf("%w: invalid iteration count %q", ErrMalformedHash, parts[1])
	}

	if parts[2] == "" {
		return 0, "", nil, fmt.Errorf("%w: empty salt", ErrMalformedHash)
	}

	digest, err = base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(digest) == 0 {
		return 0, "", nil, fmt.Errorf("%w: invalid digest encoding", ErrMalformedHash)
	}

	return iterations, parts[2], digest, nil
}
