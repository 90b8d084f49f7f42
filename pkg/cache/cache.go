// Package cache provides pluggable byte caches for annotation lookups.
//
// Annotation databases can be slow (remote mongo instances) and lookups are
// highly repetitive during an interactive session, so results are cached
// behind a small Cache interface with several backends:
//   - FileCache: directory of JSON entry files for CLI usage
//   - RedisCache: shared cache for multi-session deployments
//   - NullCache: no-op cache for tests or when caching is disabled
//
// Keys are opaque strings; use Key to build collision-safe keys from
// structured parts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores raw bytes under string keys with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// Key generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
