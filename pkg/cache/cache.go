// Package cache stores encoded verify reports so repeated sweeps over the
// same catalog are served without re-running the placer.
//
// Three backends are provided:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for multi-instance API deployments
//   - [NullCache]: never stores anything; used by --no-cache
//
// Keys are produced by a [Keyer] so the storage backends stay unaware of
// what is being cached.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// A miss is reported as (nil, false, nil); errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey identifies a verify report for a catalog fingerprint and
	// the subset size bounds that were swept.
	ReportKey(fingerprint string, minSize, maxSize int) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<hash>".
func (DefaultKeyer) ReportKey(fingerprint string, minSize, maxSize int) string {
	return hashKey("report", fingerprint, minSize, maxSize)
}
