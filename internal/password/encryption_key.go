package password

import "encoding/base64"

// encryptionKeySize is the raw key size expected by the symmetric encryption
// collaborators (32 bytes before encoding).
const encryptionKeySize = 32

// EncryptionKey normalizes an arbitrary-length secret to exactly 32 bytes
// (right-padded with spaces, truncated when longer) and returns its URL-safe
// base64 encoding, the format expected by base64key:// secret keepers.
//
// This is a formatting step, not a strengthening one: the result carries no
// more entropy than the input secret.
func EncryptionKey(secret string) []byte {
	raw := make([]byte, encryptionKeySize)
	copied := copy(raw, secret)
	for i := copied; i < encryptionKeySize; i++ {
		raw[i] = ' '
	}

	encoded := make([]byte, base64.URLEncoding.EncodedLen(encryptionKeySize))
	base64.URLEncoding.Encode(encoded, raw)
	return encoded
}
