package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

const (
	defaultBorderColor = "#C7C7CC"
	defaultTextColor   = "#1C1C1E"
	defaultCellFill    = "#FFFFFF"
	svgFontFamily      = measure.FontFamily
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	borderColor string
	borderWidth float64
	radius      float64
	viewport    bool
	rows        *Registry[SVGRowFunc]
	missing     missingTracker
}

// WithTableBorder draws an outer border around the table.
func WithTableBorder(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.borderColor, r.borderWidth = color, width }
}

// WithCornerRadius rounds the table corners and clips the cells to them.
func WithCornerRadius(radius float64) SVGOption { return func(r *svgRenderer) { r.radius = radius } }

// WithViewportSize sizes the SVG to the layout viewport instead of the
// full content.
func WithViewportSize() SVGOption { return func(r *svgRenderer) { r.viewport = true } }

// WithSVGRows sets the registry used for custom rows.
func WithSVGRows(reg *Registry[SVGRowFunc]) SVGOption { return func(r *svgRenderer) { r.rows = reg } }

// WithSVGMissing sets the callback for renderer tokens with no registered
// SVG renderer.
func WithSVGMissing(fn MissingFunc) SVGOption { return func(r *svgRenderer) { r.missing.fn = fn } }

func RenderSVG(t table.Table, l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{rows: SVGRows}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := l.ContentWidth, l.ContentHeight
	if r.viewport {
		width, height = l.Viewport.Width, l.Viewport.Height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	clip := r.radius > 0
	if clip {
		fmt.Fprintf(&buf, `  <defs><clipPath id="table-clip"><rect x="0" y="0" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f"/></clipPath></defs>`+"\n",
			l.ContentWidth, l.ContentHeight, r.radius, r.radius)
		buf.WriteString(`  <g clip-path="url(#table-clip)">` + "\n")
	}

	n := min(len(t.Rows), l.RowCount())
	for i := range n {
		r.renderRow(&buf, t, l, i)
	}

	if clip {
		buf.WriteString("  </g>\n")
	}
	if r.borderWidth > 0 {
		color := r.borderColor
		if color == "" {
			color = defaultBorderColor
		}
		fmt.Fprintf(&buf, `  <rect class="table-border" x="0" y="0" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
			l.ContentWidth, l.ContentHeight, r.radius, r.radius, EscapeXML(color), r.borderWidth)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderRow(buf *bytes.Buffer, t table.Table, l layout.Layout, i int) {
	row := t.Rows[i]
	if row.IsCustom() {
		if fn, ok := r.rows.Lookup(row.Renderer); ok {
			f := frame(t, l, i)
			fmt.Fprintf(buf, `  <g class="row custom" data-renderer="%s" transform="translate(0 %.2f)">`+"\n",
				EscapeXML(row.Renderer), f.Rect.Y)
			f.Rect.Y = 0
			fn(buf, f)
			buf.WriteString("  </g>\n")
			return
		}
		r.missing.report(row.Renderer)
	}

	for c := range l.Widths {
		var cell table.Cell
		if c < len(row.Cells) {
			cell = row.Cells[c]
		}
		renderCell(buf, cell, l.CellRect(i, c), row.Header)
	}
}

func renderCell(buf *bytes.Buffer, cell table.Cell, rect layout.Rect, header bool) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	fill := cell.Style.Background
	if fill == "" {
		fill = defaultCellFill
	}
	stroke := cell.Style.BorderColor
	if stroke == "" {
		stroke = defaultBorderColor
	}
	fmt.Fprintf(buf, `  <rect class="cell" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		rect.X, rect.Y, rect.W, rect.H, EscapeXML(fill), EscapeXML(stroke), cell.Style.BorderWidth)

	if cell.Text == "" {
		return
	}
	size := cell.Font.PointSize()
	label := TruncateLabel(cell.Text, rect.W-cell.Insets.Horizontal(), size)
	if label == "" {
		return
	}

	x, anchor := textAnchor(cell, rect)
	color := cell.Style.Foreground
	if color == "" {
		color = defaultTextColor
	}
	weight := "normal"
	if header || cell.Font.Bold {
		weight = "bold"
	}
	family := cell.Font.Family
	if family == "" {
		family = svgFontFamily
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="central" font-family="%s" font-size="%.1f" font-weight="%s" fill="%s">%s</text>`+"\n",
		x, rect.Y+rect.H/2, anchor, EscapeXML(family), size, weight, EscapeXML(color), EscapeXML(label))
}

func textAnchor(cell table.Cell, rect layout.Rect) (float64, string) {
	switch cell.Style.Align {
	case table.AlignLeft:
		return rect.X + cell.Insets.Left, "start"
	case table.AlignRight:
		return rect.X + rect.W - cell.Insets.Right, "end"
	default:
		return rect.X + rect.W/2, "middle"
	}
}

// TruncateLabel shortens label to fit width at the given font size using
// the approximate glyph advance, ending it with an ellipsis. It returns ""
// when not even one character fits.
func TruncateLabel(label string, width, size float64) string {
	charWidth := size * measure.DefaultCharWidth
	if charWidth <= 0 {
		return label
	}
	maxChars := int(width / charWidth)
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	if maxChars < 1 {
		return ""
	}
	runes := []rune(label)
	return string(runes[:maxChars-1]) + Ellipsis
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
