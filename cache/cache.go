// Package cache defines the result cache contract and the content
// fingerprint that keys it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Store persists generation and review results keyed by content fingerprint.
//
// Entries are content-addressed: the same fingerprint always maps to an
// equivalent value, so a concurrent duplicate write is harmless whichever
// writer wins.
type Store interface {
	// Get returns the cached value for key. The second return is false
	// on a miss; err reports backend failures only.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the entry for key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// Fingerprint derives a cache key from an ordered list of request parts.
//
// Each part is length-prefixed before hashing so distinct part lists can
// never collide by concatenation ("ab","c" vs "a","bc"). Callers must
// sort any unordered parts (such as focus terms) before passing them in.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, part := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Nop is a Store that caches nothing. Every Get is a miss and every
// Set is dropped.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Delete(context.Context, string) error              { return nil }
