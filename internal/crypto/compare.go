package crypto

import "crypto/subtle"

// ConstantTimeCompare reports whether a and b are equal without leaking, via
// timing, the position of the first differing byte. Inputs of different
// lengths compare as unequal.
//
// This is the only equality check that may be used for secrets, digests, and
// encoded hashes anywhere in this module.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ConstantTimeCompareString is ConstantTimeCompare over strings.
func ConstantTimeCompareString(a, b string) bool {
	return ConstantTimeCompare([]byte(a), []byte(b))
}
