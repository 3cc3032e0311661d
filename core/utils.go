package core

import "crypto/sha256"

// GetHash returns the SHA-256 digest of data.
func GetHash(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}
