package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/observability"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/sink"
	"github.com/matzehuels/sheetgrid/pkg/table/sink/rows"
)

var registerRows sync.Once

// RegisterBuiltinRows installs the built-in row renderers into the global
// sink registries. It is safe to call more than once.
func RegisterBuiltinRows() {
	registerRows.Do(func() { rows.Register(sink.TextRows, sink.SVGRows) })
}

// RenderFromLayout renders every format in opts from an existing layout
// without caching.
func RenderFromLayout(ctx context.Context, t table.Table, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	RegisterBuiltinRows()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(t, l, format, opts, missingReporter(ctx, format, opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// TextOptions returns the text sink options for opts.
func (o *Options) TextOptions() []sink.TextOption {
	sep, _ := sink.ParseSeparators(o.Separators)
	textOpts := []sink.TextOption{
		sink.WithCellWidth(o.CellWidth),
		sink.WithSeparators(sep),
	}
	if o.StickyHeader {
		textOpts = append(textOpts, sink.WithStickyHeader())
	}
	return textOpts
}

// SVGOptions returns the SVG sink options for opts.
func (o *Options) SVGOptions() []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if o.Border > 0 {
		svgOpts = append(svgOpts, sink.WithTableBorder(o.BorderColor, o.Border))
	}
	if o.CornerRadius > 0 {
		svgOpts = append(svgOpts, sink.WithCornerRadius(o.CornerRadius))
	}
	if o.MaxWidth > 0 || o.MaxHeight > 0 {
		svgOpts = append(svgOpts, sink.WithViewportSize())
	}
	return svgOpts
}

func renderFormat(t table.Table, l layout.Layout, format string, opts Options, missing sink.MissingFunc) ([]byte, error) {
	switch format {
	case FormatText:
		textOpts := append(opts.TextOptions(), sink.WithTextMissing(missing))
		return []byte(sink.RenderText(t, l, textOpts...)), nil
	case FormatSVG:
		svgOpts := append(opts.SVGOptions(), sink.WithSVGMissing(missing))
		return sink.RenderSVG(t, l, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(t, l)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

// missingReporter forwards unregistered row tokens to the hooks and the log.
func missingReporter(ctx context.Context, format string, logger *log.Logger) sink.MissingFunc {
	return func(token string) {
		observability.Pipeline().OnMissingRenderer(ctx, format, token)
		logger.Warn("no row renderer, drawing cells", "format", format, "renderer", token)
	}
}
