// Package pipeline provides the layout → render pipeline for SheetGrid.
//
// The CLI and the HTTP server both go through this package so that
// defaults, validation, and caching behave the same on every entry point.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: compute column widths and content size for a table
//  2. Render: draw the table as text, SVG, or JSON
//
// Each stage can be run on its own or as part of [Runner.Execute].
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Width:   320,
//	    AutoFit: true,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, t, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, t, opts)
//	artifacts, err := runner.Render(ctx, t, l, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetgrid/pkg/cache"
	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMeasurer is the measurer used when none is named.
	DefaultMeasurer = measure.NameApprox

	// DefaultSeparators is the grid line style for text output.
	DefaultSeparators = "all"

	// DefaultBorderColor is the outer border color for SVG output.
	DefaultBorderColor = "#C7C7CC"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatText, FormatSVG, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width     float64 `json:"width,omitempty"`
	AutoFit   bool    `json:"auto_fit,omitempty"`
	Measurer  string  `json:"measurer,omitempty"`
	MaxWidth  float64 `json:"max_width,omitempty"`
	MaxHeight float64 `json:"max_height,omitempty"`
	Refresh   bool    `json:"refresh,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	CellWidth    float64  `json:"cell_width,omitempty"` // layout units per terminal cell
	Separators   string   `json:"separators,omitempty"`
	StickyHeader bool     `json:"sticky_header,omitempty"`
	Border       float64  `json:"border,omitempty"`
	BorderColor  string   `json:"border_color,omitempty"`
	CornerRadius float64  `json:"corner_radius,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the table that was laid out.
	Table table.Table

	// TableHash is the content hash of the table.
	TableHash string

	// Layout is the computed layout.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount    int
	ColumnCount int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMeasurer checks that name is a known measurer.
func ValidateMeasurer(name string) error {
	if !slices.Contains(measure.Names, name) {
		return errors.New(errors.ErrCodeInvalidMeasurer,
			"invalid measurer: %q (must be one of: approx, cells, font)", name)
	}
	return nil
}

// ValidateSeparators checks that s is a known separator style.
func ValidateSeparators(s string) error {
	_, err := sink.ParseSeparators(s)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must not be negative, got %g", o.Width)
	}
	if o.MaxWidth < 0 || o.MaxHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max width and height must not be negative")
	}
	return ValidateMeasurer(o.Measurer)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.CellWidth <= 0 {
		o.CellWidth = o.defaultCellWidth()
	}
	if o.Separators == "" {
		o.Separators = DefaultSeparators
	}
	if o.Border > 0 && o.BorderColor == "" {
		o.BorderColor = DefaultBorderColor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	formats, err := errors.ValidateFormats(o.Formats, ValidFormats)
	if err != nil {
		return err
	}
	o.Formats = formats
	if o.Border < 0 || o.CornerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "border and corner radius must not be negative")
	}
	return ValidateSeparators(o.Separators)
}

// defaultCellWidth returns how many layout units one terminal cell spans
// for the configured measurer.
func (o *Options) defaultCellWidth() float64 {
	if o.Measurer == measure.NameCells {
		return 1
	}
	return sink.PointsPerCell
}

// LayoutOptions returns the layout engine options for o.
func (o *Options) LayoutOptions(m measure.Measurer) []layout.Option {
	return []layout.Option{
		layout.WithAvailableWidth(o.Width),
		layout.WithAutoFit(o.AutoFit),
		layout.WithMeasurer(m),
		layout.WithMaxWidth(o.MaxWidth),
		layout.WithMaxHeight(o.MaxHeight),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:     o.Width,
		AutoFit:   o.AutoFit,
		Measurer:  o.Measurer,
		MaxWidth:  o.MaxWidth,
		MaxHeight: o.MaxHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect format are left out.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatText:
		k.CellWidth = o.CellWidth
		k.Separators = o.Separators
		k.StickyHeader = o.StickyHeader
	case FormatSVG:
		k.Border = o.Border
		k.BorderColor = o.BorderColor
		k.CornerRadius = o.CornerRadius
	}
	return k
}
