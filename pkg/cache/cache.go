// Package cache stores encoded artifacts between runs.
//
// A rendered variant is a pure function of the source bytes, the variant
// definition and the effective options, so its encoded bytes can be reused
// across runs. The [Keyer] turns those inputs into a stable key; a [Cache]
// backend stores the bytes.
//
// Backends:
//
//   - [FileCache]: one JSON envelope per key under a local directory (CLI)
//   - [RedisCache]: a shared redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts live when the caller does not choose.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with optional expiry. A miss is reported as
// hit=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Stats summarizes the entries held by a backend.
type Stats struct {
	Entries int
	Bytes   int64
}

// Maintainer is implemented by backends that can report on and drop all of
// their entries.
type Maintainer interface {
	Stats(ctx context.Context) (Stats, error)
	Clear(ctx context.Context) error
}
