// Package cache provides the derived-data cache behind the layout pipeline.
//
// Layouts and rendered artifacts are pure functions of their inputs, so they
// are stored under content-hash keys produced by a [Keyer]. The cache is never
// a store of record: every backend may drop entries at any time and callers
// recompute on a miss.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for CLI use
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: shared cache with a TTL index on expiry
//
// Wrap remote backends with [NewBreakerCache] so an outage degrades to cache
// misses instead of failed layouts.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. An error means the
// backend could not answer.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes per key type.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// DefaultDir returns the directory used by the CLI's file cache:
// $XDG_CACHE_HOME/threadmap, falling back to the OS user cache directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "threadmap"), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "threadmap"), nil
}

// =============================================================================
// Keys
// =============================================================================

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout result.
type LayoutKeyOpts struct {
	Locked  string  `json:"locked,omitempty"`
	CenterX float64 `json:"cx"`
	CenterY float64 `json:"cy"`
	DropX   float64 `json:"dx,omitempty"`
	DropY   float64 `json:"dy,omitempty"`
	HasDrop bool    `json:"drop,omitempty"`
	// Params is the content hash of the engine parameters.
	Params string `json:"params"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Edges  bool    `json:"edges,omitempty"`
}

// DefaultKeyer produces keys of the form kind:sha256(...).
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
