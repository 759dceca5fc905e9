package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// Hash computes a SHA-256 digest over the given byte slice using a hasher
// pulled from the package hasher pool.
//
// Behavior:
//   - Retrieves a hash.Hash instance from sync.Pool
//   - Resets it, writes the data, computes the sum
//   - Resets again and returns it to the pool
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashString returns the hex-encoded SHA-256 digest of data.
//
// Example usage:
//
//	digest := utils.HashString(definitionBytes)
func HashString(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// HashReader streams r through SHA-256 and returns the hex-encoded digest.
// It is used for payloads too large to hold in memory.
func HashReader(r io.Reader) (string, error) {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()
	defer func() {
		h.Reset()
		hasherPool.Put(h)
	}()

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("error hashing stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
