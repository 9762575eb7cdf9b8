package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaltedHMAC(t *testing.T) {
	keySalt := []byte("credstore.auth.TokenSigner")
	value := []byte("some-signed-value")
	secret := []byte("application-secret-key")

	tests := []struct {
		name        string
		algorithm   Algorithm
		digestSize  int
		expectError error
	}{
		{
			name:       "Success_SHA1",
			algorithm:  SHA1,
			digestSize: 20,
		},
		{
			name:       "Success_SHA256",
			algorithm:  SHA256,
			digestSize: 32,
		},
		{
			name:       "Success_SHA384",
			algorithm:  SHA384,
			digestSize: 48,
		},
		{
			name:       "Success_SHA512",
			algorithm:  SHA512,
			digestSize: 64,
		},
		{
			name:        "Error_UnknownAlgorithm",
			algorithm:   Algorithm("md5"),
			expectError: ErrInvalidAlgorithm,
		},
		{
			name:        "Error_EmptyAlgorithm",
			algorithm:   Algorithm(""),
			expectError: ErrInvalidAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := SaltedHMAC(keySalt, value, secret, tt.algorithm)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, digest)
				return
			}

			require.NoError(t, err)
			assert.Len(t, digest, tt.digestSize)

			// Deterministic for fixed inputs.
			again, err := SaltedHMAC(keySalt, value, secret, tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, digest, again)
		})
	}
}

func TestSaltedHMAC_KeyDerivation(t *testing.T) {
	keySalt := []byte("purpose-one")
	value := []byte("value")
	secret := []byte("application-secret-key")

	// Digest must match HMAC(H(keySalt || secret), value) computed directly.
	keyHasher := sha256.New()
	keyHasher.Write(keySalt)
	keyHasher.Write(secret)
	mac := hmac.New(sha256.New, keyHasher.Sum(nil))
	mac.Write(value)
	expected := mac.Sum(nil)

	digest, err := SaltedHMAC(keySalt, value, secret, SHA256)
	require.NoError(t, err)
	assert.Equal(t, expected, digest)
}

func TestSaltedHMAC_DistinctInputs(t *testing.T) {
	value := []byte("value")
	secret := []byte("application-secret-key")

	base, err := SaltedHMAC([]byte("salt-a"), value, secret, SHA256)
	require.NoError(t, err)

	differentSalt, err := SaltedHMAC([]byte("salt-b"), value, secret, SHA256)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentSalt)

	differentValue, err := SaltedHMAC([]byte("salt-a"), []byte("other"), secret, SHA256)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentValue)

	differentSecret, err := SaltedHMAC([]byte("salt-a"), value, []byte("other-secret"), SHA256)
	require.NoError(t, err)
	assert.NotEqual(t, base, differentSecret)
}

func TestSaltedHMAC_EmptySecret(t *testing.T) {
	_, err := SaltedHMAC([]byte("salt"), []byte("value"), nil, SHA256)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
