package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetgrid/pkg/cache"
	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/observability"
	"github.com/matzehuels/sheetgrid/pkg/table"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout and render for t with caching.
func (r *Runner) Execute(ctx context.Context, t table.Table, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := TableHash(t)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Table:     t,
		TableHash: hash,
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			RowCount:    t.RowCount(),
			ColumnCount: t.ColumnCount(),
		},
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"rows", result.Stats.RowCount,
		"columns", l.ColumnCount(),
		"width", l.ContentWidth,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of t with caching and returns
// cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t table.Table, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLayoutStart(ctx, t.RowCount(), t.ColumnCount())

	hash, err := TableHash(t)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := tableio.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				hooks.OnLayoutComplete(ctx, cached.ColumnCount(), time.Since(start), nil)
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		} else if err != nil {
			opts.Logger.Debug("layout cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := ComputeLayout(t, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return layout.Layout{}, false, err
	}
	opts.Logger.Debug("layout pass",
		"measurer", opts.Measurer,
		"available", opts.Width,
		"widths", l.Widths)

	if data, err := tableio.MarshalLayout(l); err == nil {
		r.store(ctx, cacheKey, keyTypeLayout, data, cache.TTLLayout, opts.Logger)
	}

	hooks.OnLayoutComplete(ctx, l.ColumnCount(), time.Since(start), nil)
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, t table.Table, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format with caching and
// returns cache hit info. The hit is true only if all formats came from
// the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t table.Table, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	// Artifacts depend on the cell text as well as the geometry.
	inputHash, err := cache.HashJSON(struct {
		Table  table.Table   `json:"table"`
		Layout layout.Layout `json:"layout"`
	}{t, l})
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "hash render input")
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := RenderFromLayout(ctx, t, l, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, keyTypeArtifact, data, cache.TTLArtifact, opts.Logger)
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t table.Table, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	return artifacts, err
}

// ComputeLayout runs a layout pass without caching.
func ComputeLayout(t table.Table, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}
	m, err := measure.Parse(opts.Measurer)
	if err != nil {
		return layout.Layout{}, err
	}
	if c, ok := m.(io.Closer); ok {
		defer c.Close()
	}
	cached := measure.Cached(m, measure.DefaultCacheSize)
	return layout.Compute(t, opts.LayoutOptions(cached)...), nil
}

// TableHash returns the content hash of t used in cache keys.
func TableHash(t table.Table) (string, error) {
	h, err := cache.HashJSON(t)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash table")
	}
	return h, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
