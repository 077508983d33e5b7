// Package cache stores the results of expensive document operations keyed by
// content hash.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one file per entry under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the validation service
//
// Keys are produced by a [Keyer]. The default keyer derives them from the
// SHA-256 of the input document plus the options that influence the result,
// so a changed document or option never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend could
// not answer. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
