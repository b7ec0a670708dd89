// Package cache provides the byte-level caching layer behind the layout
// pipeline.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// TTL. Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: stores nothing (--no-cache)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document store with a TTL index
//
// Keys come from a [Keyer] so the CLI and the HTTP server agree on them.
// [ScopedKeyer] prefixes every key, for example per tenant.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLs for cached pipeline results.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey keys a packed layout by the hash of its item list.
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the packing parameters that affect a layout.
type LayoutKeyOpts struct {
	Columns   int     `json:"columns"`
	Width     float64 `json:"width"`
	Gutter    float64 `json:"gutter"`
	Tolerance float64 `json:"tolerance"`
}

// ArtifactKeyOpts are the rendering parameters that affect an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Title    string `json:"title,omitempty"`
	Captions bool   `json:"captions,omitempty"`
	Images   bool   `json:"images,omitempty"`
}

// DefaultKeyer produces unprefixed keys of the form "stage:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
