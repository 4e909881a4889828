package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashKey builds a namespaced cache key from the given parts. Parts are
// JSON-encoded before hashing, so anything that marshals deterministically
// can contribute to a key, from source digests to whole option structs.
// The result looks like "parse:ab12..." with a full SHA-256 digest.
func HashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
