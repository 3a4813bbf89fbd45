// Package cache stores placement results and rendered artifacts.
//
// Placement with an explicit seed is deterministic, so identical
// configurations can skip the engine entirely. Rendered plots are keyed by
// the placement they were drawn from plus the output format.
//
// Three backends are provided:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps JSON entries under a directory for the CLI
//   - [RedisCache] shares entries between API server replicas
//
// Keys are produced by a [Keyer] so callers never hand-assemble them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	TTLPlacement = 7 * 24 * time.Hour
	TTLArtifact  = 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// PlacementKey identifies a placement by configuration hash and seed.
	PlacementKey(configHash string, seed uint64) string

	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(placementHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Radius float64 `json:"radius"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlacementKey implements Keyer.
func (DefaultKeyer) PlacementKey(configHash string, seed uint64) string {
	return hashKey("placement", configHash, seed)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", placementHash, opts)
}
