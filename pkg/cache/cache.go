// Package cache stores computed layouts and rendered artifacts.
//
// Layout is deterministic, so its inputs (the table content plus the layout
// options) fully determine the output. The pipeline hashes those inputs
// with a [Keyer] and keeps the encoded result in a [Cache]:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys are namespaced by stage ("layout:", "artifact:") and can be scoped
// further with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Entry lifetimes. Layouts are cheap to recompute but stable; artifacts
// depend on renderer versions and expire sooner.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey returns the key for the layout of the table with the given
	// content hash.
	LayoutKey(tableHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key for a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes computed widths.
type LayoutKeyOpts struct {
	Width     float64 `json:"width"`
	AutoFit   bool    `json:"auto_fit"`
	Measurer  string  `json:"measurer"`
	MaxWidth  float64 `json:"max_width"`
	MaxHeight float64 `json:"max_height"`
}

// ArtifactKeyOpts holds every option that changes rendered output.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	CellWidth    float64 `json:"cell_width,omitempty"`
	Separators   string  `json:"separators,omitempty"`
	StickyHeader bool    `json:"sticky_header,omitempty"`
	Border       float64 `json:"border,omitempty"`
	BorderColor  string  `json:"border_color,omitempty"`
	CornerRadius float64 `json:"corner_radius,omitempty"`
}

// DefaultKeyer hashes the key options together with the input hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(tableHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", tableHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
