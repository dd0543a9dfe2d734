package util

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// SHA256Hex returns the hex-encoded sha256 digest of s.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns a fast, non-cryptographic digest of data. It is used
// only to detect content changes, never as an identifier.
func Fingerprint(data []byte) string {
	var buf [8]byte
	sum := xxhash.Sum64(data)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(sum)
		sum >>= 8
	}
	return hex.EncodeToString(buf[:])
}
