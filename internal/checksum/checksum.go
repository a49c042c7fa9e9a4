// Package checksum computes the content digests used to detect changed
// prompt files between scans.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Files whose
// digests match the stored value are skipped during sync.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
