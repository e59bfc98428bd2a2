// Package sink renders a table and its computed layout to output formats.
//
// # Overview
//
// A "sink" takes a [table.Table] together with the [layout.Layout] computed
// for it and produces bytes. Sinks never compute widths; they only place
// content into the rectangles the layout describes.
//
//   - Text: a terminal grid drawn with lipgloss ([RenderText])
//   - SVG: rectangles and labels ([RenderSVG])
//   - JSON: column and cell geometry for external tools ([RenderJSON])
//
// # Custom Rows
//
// A row with a Renderer token is drawn by the function registered under
// that token instead of cell by cell. Text and SVG have separate
// registries ([TextRows], [SVGRows]); the built-in progress, card, and
// toggle renderers live in package rows:
//
//	rows.Register(sink.TextRows, sink.SVGRows)
//	out := sink.RenderText(t, l, sink.WithCellWidth(1))
//
// A token with no registered renderer falls back to per-cell drawing and
// is reported once per render through [WithTextMissing] or
// [WithSVGMissing].
//
// # Text Output
//
// Column widths are converted to terminal cells with [WithCellWidth].
// Overlong text is cut with an ellipsis. [WithTextOffset] and
// [WithTextSize] scroll and clip the grid for interactive viewers.
package sink
