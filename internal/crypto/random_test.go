package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	tests := []struct {
		name         string
		length       int
		allowedChars string
		expectError  bool
	}{
		{
			name:         "Success_Length1",
			length:       1,
			allowedChars: RandomStringChars,
		},
		{
			name:         "Success_Length32",
			length:       32,
			allowedChars: RandomStringChars,
		},
		{
			name:         "Success_CustomAlphabet",
			length:       64,
			allowedChars: "ab",
		},
		{
			name:         "Error_LengthZero",
			length:       0,
			allowedChars: RandomStringChars,
			expectError:  true,
		},
		{
			name:         "Error_NegativeLength",
			length:       -1,
			allowedChars: RandomStringChars,
			expectError:  true,
		},
		{
			name:         "Error_EmptyAlphabet",
			length:       16,
			allowedChars: "",
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RandomString(tt.length, tt.allowedChars)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, result, tt.length)

			for _, c := range result {
				assert.True(t, strings.ContainsRune(tt.allowedChars, c),
					"character %c is not in the allowed alphabet", c)
			}
		})
	}
}

func TestRandomString_Uniqueness(t *testing.T) {
	// Two 32-character draws from a 62-character alphabet collide with
	// negligible probability.
	first, err := RandomString(32, RandomStringChars)
	require.NoError(t, err)

	second, err := RandomString(32, RandomStringChars)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRandomSecretKey(t *testing.T) {
	key, err := RandomSecretKey(50)
	require.NoError(t, err)
	assert.Len(t, key, 50)

	for _, c := range key {
		assert.True(t, strings.ContainsRune(secretKeyChars, c),
			"character %c is not in the secret key alphabet", c)
	}

	_, err = RandomSecretKey(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
