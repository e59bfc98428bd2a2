package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/pipeline"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config holds CLI defaults read from config.toml:
//
//	[layout]
//	width = 640
//	autofit = true
//	measurer = "font"
//
//	[render]
//	formats = ["text", "svg"]
//	separators = "horizontal"
//
//	[serve]
//	addr = ":8080"
//	redis = "redis://localhost:6379/0"
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	Width     float64 `toml:"width"`
	AutoFit   bool    `toml:"autofit"`
	Measurer  string  `toml:"measurer"`
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Formats      []string `toml:"formats"`
	CellWidth    float64  `toml:"cell_width"`
	Separators   string   `toml:"separators"`
	StickyHeader bool     `toml:"sticky_header"`
	Border       float64  `toml:"border"`
	BorderColor  string   `toml:"border_color"`
	CornerRadius float64  `toml:"corner_radius"`
}

// ServeConfig holds HTTP server defaults.
type ServeConfig struct {
	Addr  string `toml:"addr"`
	Redis string `toml:"redis"`
}

// LoadConfig reads the config file at path. A missing file yields the zero
// Config. Unknown keys are rejected so that typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Options converts the config into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Width:        c.Layout.Width,
		AutoFit:      c.Layout.AutoFit,
		Measurer:     c.Layout.Measurer,
		MaxWidth:     c.Layout.MaxWidth,
		MaxHeight:    c.Layout.MaxHeight,
		Formats:      c.Render.Formats,
		CellWidth:    c.Render.CellWidth,
		Separators:   c.Render.Separators,
		StickyHeader: c.Render.StickyHeader,
		Border:       c.Render.Border,
		BorderColor:  c.Render.BorderColor,
		CornerRadius: c.Render.CornerRadius,
	}
}

// =============================================================================
// Option Flags
// =============================================================================

// optionFlags binds pipeline options to command flags. Only flags that were
// set on the command line override the config file.
type optionFlags struct {
	opts    pipeline.Options
	formats string
	noCache bool
}

// registerLayout adds the layout flags to cmd.
func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.opts.Width, "width", 0, "available width in layout units (0: unknown)")
	fl.BoolVar(&f.opts.AutoFit, "autofit", false, "spread leftover width across all columns")
	fl.StringVar(&f.opts.Measurer, "measurer", "", "text measurer: approx (default), cells, font")
	fl.Float64Var(&f.opts.MaxWidth, "max-width", 0, "cap the viewport width (0: none)")
	fl.Float64Var(&f.opts.MaxHeight, "max-height", 0, "cap the viewport height (0: none)")
}

// registerCache adds the cache flags to cmd.
func (f *optionFlags) registerCache(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "recompute instead of reading the cache")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// registerRender adds the render flags to cmd. withFormats adds --format.
func (f *optionFlags) registerRender(cmd *cobra.Command, withFormats bool) {
	fl := cmd.Flags()
	if withFormats {
		fl.StringVarP(&f.formats, "format", "f", "", "output format(s): text (default), svg, json (comma-separated)")
	}
	fl.Float64Var(&f.opts.CellWidth, "cell-width", 0, "layout units per terminal cell (default depends on measurer)")
	fl.StringVar(&f.opts.Separators, "separators", "", "text grid lines: all (default), horizontal, vertical, none")
	fl.BoolVar(&f.opts.StickyHeader, "sticky-header", false, "keep header rows visible when scrolled")
	fl.Float64Var(&f.opts.Border, "border", 0, "SVG outer border width")
	fl.StringVar(&f.opts.BorderColor, "border-color", "", "SVG outer border color")
	fl.Float64Var(&f.opts.CornerRadius, "corner-radius", 0, "SVG corner radius")
}

// resolve merges the config defaults with the flags set on cmd.
func (f *optionFlags) resolve(cmd *cobra.Command, cfg Config) pipeline.Options {
	opts := cfg.Options()
	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}

	set("width", func() { opts.Width = f.opts.Width })
	set("autofit", func() { opts.AutoFit = f.opts.AutoFit })
	set("measurer", func() { opts.Measurer = f.opts.Measurer })
	set("max-width", func() { opts.MaxWidth = f.opts.MaxWidth })
	set("max-height", func() { opts.MaxHeight = f.opts.MaxHeight })
	set("format", func() { opts.Formats = parseFormats(f.formats) })
	set("cell-width", func() { opts.CellWidth = f.opts.CellWidth })
	set("separators", func() { opts.Separators = f.opts.Separators })
	set("sticky-header", func() { opts.StickyHeader = f.opts.StickyHeader })
	set("border", func() { opts.Border = f.opts.Border })
	set("border-color", func() { opts.BorderColor = f.opts.BorderColor })
	set("corner-radius", func() { opts.CornerRadius = f.opts.CornerRadius })
	opts.Refresh = f.opts.Refresh

	return opts
}
