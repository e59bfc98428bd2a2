package measure

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

// DefaultCacheSize is the number of measurements [Cached] keeps by default.
const DefaultCacheSize = 4096

type cacheKey struct {
	text string
	font table.Font
}

// CachedMeasurer memoizes another measurer in a fixed-size LRU.
type CachedMeasurer struct {
	inner Measurer
	cache *lru.Cache[cacheKey, float64]
}

// Cached wraps m with an LRU of the given size. A size of zero or less
// uses DefaultCacheSize.
func Cached(m Measurer, size int) *CachedMeasurer {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	c, _ := lru.New[cacheKey, float64](size)
	return &CachedMeasurer{inner: m, cache: c}
}

// Measure implements [Measurer].
func (c *CachedMeasurer) Measure(text string, font table.Font) float64 {
	k := cacheKey{text: text, font: font}
	if w, ok := c.cache.Get(k); ok {
		return w
	}
	w := c.inner.Measure(text, font)
	c.cache.Add(k, w)
	return w
}

// Len returns the number of cached measurements.
func (c *CachedMeasurer) Len() int { return c.cache.Len() }

// Purge drops every cached measurement.
func (c *CachedMeasurer) Purge() { c.cache.Purge() }
