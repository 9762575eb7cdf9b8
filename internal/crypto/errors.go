package crypto

import "errors"

// Sentinel errors returned by the cryptographic utility functions.
var (
	// ErrInvalidAlgorithm indicates the requested hash algorithm is not part
	// of the supported set.
	ErrInvalidAlgorithm = errors.New("invalid hash algorithm")

	// ErrInvalidParameter indicates a parameter that would produce a weak or
	// meaningless result (non-positive length, empty alphabet, zero
	// iterations). Operations fail fast instead of degrading silently.
	ErrInvalidParameter = errors.New("invalid parameter")
)
