// Package cache stores computed wall counts.
//
// A count is a pure function of its inputs, so entries never go stale; the
// cache exists because large walls take seconds to minutes to count. Backends
// implement [Cache]: [NullCache] disables caching, [FileCache] serves the CLI,
// and [RedisCache] and [MongoCache] let several `crackfree serve` instances
// share results. Keys come from a [Keyer].
package cache

import (
	"context"
	"time"
)

// TTLCount is the lifetime of cached counts. Zero means no expiry.
const TTLCount time.Duration = 0

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CountKeyOpts holds the count options that change the cached value.
type CountKeyOpts struct {
	Exact bool `json:"exact,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// CountKey returns the key for the wall count of the given size.
	CountKey(width, height int, opts CountKeyOpts) string
}

// DefaultKeyer produces hashed, namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CountKey returns "count:<sha256 of the inputs>".
func (DefaultKeyer) CountKey(width, height int, opts CountKeyOpts) string {
	return hashKey("count", width, height, opts)
}
