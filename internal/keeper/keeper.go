// Package keeper provides encryption at rest for small secrets such as
// account recovery codes, backed by gocloud.dev/secrets keepers.
package keeper

import (
	"context"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/password"

	// Register all keeper provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper encrypts and decrypts small payloads.
// *secrets.Keeper implements this interface.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Open opens a Keeper for the given key URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
//
// When keyURI is empty, a local keeper is derived from secretKey. The local
// keeper is meant for development and single-node deployments; production
// setups should point keyURI at an external KMS.
func Open(ctx context.Context, keyURI, secretKey string) (Keeper, error) {
	if keyURI == "" {
		if secretKey == "" {
			return nil, apperrors.New("a key URI or a secret key is required to open a keeper")
		}
		keyURI = "base64key://" + string(password.EncryptionKey(secretKey))
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open keeper")
	}
	return keeper, nil
}
