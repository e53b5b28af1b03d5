package binutil

import (
	"encoding/hex"
	"strings"
)

// ToHex renders b as lowercase hex, grounded on the stdlib encoding/hex
// codec (no pack dependency offers anything beyond what it already does).
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex is the inverse of ToHex.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// EqualFoldASCII performs a case-insensitive ASCII comparison, used for
// genre-name lookups (ID3v1) and FourCC matching where case is ambiguous.
func EqualFoldASCII(a, b string) bool {
	return strings.EqualFold(a, b)
}
