package password

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/credstore/internal/workerpool"
)

func newTestManager(t *testing.T, schemes ...Scheme) *Manager {
	t.Helper()
	manager, err := NewManager(workerpool.New(2), schemes...)
	require.NoError(t, err)
	return manager
}

func TestNewManager(t *testing.T) {
	t.Run("Success_DefaultScheme", func(t *testing.T) {
		manager := newTestManager(t)
		assert.Equal(t, SchemeArgon2id, manager.PreferredScheme())
	})

	t.Run("Success_MultipleSchemes", func(t *testing.T) {
		manager := newTestManager(t, SchemeArgon2id, SchemeBcrypt, SchemePBKDF2SHA256)
		assert.Equal(t, SchemeArgon2id, manager.PreferredScheme())
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		_, err := NewManager(workerpool.New(2), Scheme("scrypt"))
		assert.ErrorIs(t, err, ErrUnknownScheme)
	})

	t.Run("Error_DuplicateScheme", func(t *testing.T) {
		_, err := NewManager(workerpool.New(2), SchemeBcrypt, SchemeBcrypt)
		assert.Error(t, err)
	})
}

func TestManager_HashAndVerify(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, SchemeArgon2id, SchemeBcrypt)

	encoded, err := manager.Hash(ctx, "Sup3r-Secret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	matched, err := manager.Verify(ctx, "Sup3r-Secret!", encoded)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = manager.Verify(ctx, "wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestManager_Verify_DeprecatedScheme(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, SchemeArgon2id, SchemeBcrypt)

	// Hash produced by the deprecated scheme still verifies.
	bcryptHasher := newBcryptHasher()
	encoded, err := bcryptHasher.Hash([]byte("Sup3r-Secret!"))
	require.NoError(t, err)

	matched, err := manager.Verify(ctx, "Sup3r-Secret!", encoded)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestManager_Verify_Errors(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, SchemeArgon2id)

	t.Run("Error_UnrecognisedFormat", func(t *testing.T) {
		_, err := manager.Verify(ctx, "password", "plainly-not-a-hash")
		assert.ErrorIs(t, err, ErrMalformedHash)
	})

	t.Run("Error_SchemeNotAccepted", func(t *testing.T) {
		bcryptHasher := newBcryptHasher()
		encoded, err := bcryptHasher.Hash([]byte("password"))
		require.NoError(t, err)

		_, err = manager.Verify(ctx, "password", encoded)
		assert.ErrorIs(t, err, ErrUnknownScheme)
	})

	t.Run("Error_Cancelled", func(t *testing.T) {
		encoded, err := manager.Hash(ctx, "password")
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = manager.Verify(cancelled, "password", encoded)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestManager_VerifyAndUpdate(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t, SchemeArgon2id, SchemeBcrypt, SchemePBKDF2SHA256)

	t.Run("Success_PreferredScheme_NoUpdate", func(t *testing.T) {
		encoded, err := manager.Hash(ctx, "Sup3r-Secret!")
		require.NoError(t, err)

		matched, newHash, err := manager.VerifyAndUpdate(ctx, "Sup3r-Secret!", encoded)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.Empty(t, newHash)
	})

	t.Run("Success_DeprecatedScheme_Upgraded", func(t *testing.T) {
		bcryptHasher := newBcryptHasher()
		encoded, err := bcryptHasher.Hash([]byte("Sup3r-Secret!"))
		require.NoError(t, err)

		matched, newHash, err := manager.VerifyAndUpdate(ctx, "Sup3r-Secret!", encoded)
		require.NoError(t, err)
		assert.True(t, matched)
		require.NotEmpty(t, newHash)
		assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))

		// The upgraded hash verifies against the same password.
		matched, err = manager.Verify(ctx, "Sup3r-Secret!", newHash)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("Success_DjangoFormat_Upgraded", func(t *testing.T) {
		pbkdf2Hasher := newPBKDF2Hasher()
		encoded, err := pbkdf2Hasher.Hash([]byte("Sup3r-Secret!"))
		require.NoError(t, err)

		matched, newHash, err := manager.VerifyAndUpdate(ctx, "Sup3r-Secret!", encoded)
		require.NoError(t, err)
		assert.True(t, matched)
		assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))
	})

	t.Run("NoMatch_WrongPassword", func(t *testing.T) {
		encoded, err := manager.Hash(ctx, "Sup3r-Secret!")
		require.NoError(t, err)

		matched, newHash, err := manager.VerifyAndUpdate(ctx, "wrong-password", encoded)
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Empty(t, newHash)
	})

	t.Run("NoMatch_EmptyHash", func(t *testing.T) {
		matched, newHash, err := manager.VerifyAndUpdate(ctx, "Sup3r-Secret!", "")
		require.NoError(t, err)
		assert.False(t, matched)
		assert.Empty(t, newHash)
	})

	t.Run("Error_MalformedHash", func(t *testing.T) {
		_, _, err := manager.VerifyAndUpdate(ctx, "Sup3r-Secret!", "pbkdf2_sha256$zero$salt$digest")
		assert.ErrorIs(t, err, ErrMalformedHash)
	})
}
