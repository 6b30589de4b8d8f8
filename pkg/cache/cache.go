// Package cache stores encoded atlases so identical inputs are not
// recomposited.
//
// A [Cache] is a byte store with per-entry expiry. Three backends are
// provided:
//
//   - [FileCache]: one JSON entry file per key under a local directory,
//     used by the CLI (XDG cache dir)
//   - [RedisCache]: a shared store for several servers or machines
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer]. The default keyer hashes the content of every
// frame together with the options that affect the output pixels, so a
// changed frame, frame order or filter always produces a new key.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLAtlas is how long an encoded atlas stays cached.
	TTLAtlas = 7 * 24 * time.Hour
)

// Cache is a key/value byte store.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
