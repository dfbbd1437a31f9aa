// Package cache stores grounded reports so batch re-runs skip contracts
// whose inputs have not changed. Keys are derived from every input that
// affects the output; any edit to the draft, clauses, content, or playbook
// produces a different key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory, disk, and layered
// implementations. Values are serialized grounded reports; implementations
// treat them as opaque bytes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the serialized grounding inputs. The version
// prefix invalidates all entries when the key scheme changes.
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return "clausebind:v1:" + hex.EncodeToString(h.Sum(nil))
}
