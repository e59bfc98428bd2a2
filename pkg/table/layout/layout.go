package layout

import (
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

// Layout is the computed geometry of a table: one width per column, the
// vertical offset of every row, and the resulting content and viewport
// sizes. All values are in layout units (points for SVG, cells for text).
type Layout struct {
	// Widths holds one width per column.
	Widths []float64 `json:"widths"`

	// Flexible marks columns that took a share of the remaining width.
	Flexible []bool `json:"flexible"`

	// RowHeights holds the height of every row, in order.
	RowHeights []float64 `json:"row_heights"`

	// ContentWidth and ContentHeight are the full extents of the table.
	ContentWidth  float64 `json:"content_width"`
	ContentHeight float64 `json:"content_height"`

	// AvailableWidth is the width the layout was computed against.
	AvailableWidth float64 `json:"available_width"`

	// AutoFit records whether leftover width was spread over the columns.
	AutoFit bool `json:"auto_fit,omitempty"`

	// Viewport is the visible region after max width/height limits.
	Viewport Viewport `json:"viewport"`
}

// Viewport is the visible region of the table.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollX bool    `json:"scroll_x,omitempty"` // content is wider than the viewport
	ScrollY bool    `json:"scroll_y,omitempty"` // content is taller than the viewport
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// ColumnCount returns the number of columns.
func (l Layout) ColumnCount() int { return len(l.Widths) }

// RowCount returns the number of rows.
func (l Layout) RowCount() int { return len(l.RowHeights) }

// IsEmpty reports whether the layout has no columns.
func (l Layout) IsEmpty() bool { return len(l.Widths) == 0 }

// HasFlexible reports whether any column is flexible.
func (l Layout) HasFlexible() bool {
	for _, f := range l.Flexible {
		if f {
			return true
		}
	}
	return false
}

// ColumnX returns the left edge of column c.
func (l Layout) ColumnX(c int) float64 {
	var x float64
	for i := 0; i < c && i < len(l.Widths); i++ {
		x += l.Widths[i]
	}
	return x
}

// RowY returns the top edge of row r.
func (l Layout) RowY(r int) float64 {
	var y float64
	for i := 0; i < r && i < len(l.RowHeights); i++ {
		y += l.RowHeights[i]
	}
	return y
}

// RowRect returns the rectangle spanning every column of row r.
func (l Layout) RowRect(r int) Rect {
	var h float64
	if r >= 0 && r < len(l.RowHeights) {
		h = l.RowHeights[r]
	}
	return Rect{X: 0, Y: l.RowY(r), W: l.ContentWidth, H: h}
}

// CellRect returns the rectangle of the cell at row r, column c.
func (l Layout) CellRect(r, c int) Rect {
	rr := l.RowRect(r)
	var w float64
	if c >= 0 && c < len(l.Widths) {
		w = l.Widths[c]
	}
	return Rect{X: l.ColumnX(c), Y: rr.Y, W: w, H: rr.H}
}

// =============================================================================
// Options
// =============================================================================

// Option configures [Compute].
type Option func(*config)

type config struct {
	available float64
	autoFit   bool
	measurer  measure.Measurer
	maxWidth  float64
	maxHeight float64
}

// WithAvailableWidth sets the viewport width. Zero means the width is not
// known yet; flexible columns then fall back to their minimum widths.
func WithAvailableWidth(w float64) Option { return func(c *config) { c.available = w } }

// WithAutoFit spreads leftover width across all columns.
func WithAutoFit(enabled bool) Option { return func(c *config) { c.autoFit = enabled } }

// WithMeasurer sets the text measurer for auto-width columns.
func WithMeasurer(m measure.Measurer) Option { return func(c *config) { c.measurer = m } }

// WithMaxWidth caps the viewport width. Wider content scrolls horizontally.
// Zero means no cap.
func WithMaxWidth(w float64) Option { return func(c *config) { c.maxWidth = w } }

// WithMaxHeight caps the viewport height. Taller content scrolls vertically.
// Zero means no cap.
func WithMaxHeight(h float64) Option { return func(c *config) { c.maxHeight = h } }

func newConfig(opts ...Option) config {
	c := config{measurer: measure.Approx{}}
	for _, opt := range opts {
		opt(&c)
	}
	if c.measurer == nil {
		c.measurer = measure.Approx{}
	}
	return c
}

// =============================================================================
// Compute
// =============================================================================

// Compute runs a full layout pass over t.
func Compute(t table.Table, opts ...Option) Layout {
	return compute(t.Rows, newConfig(opts...))
}

func compute(rows []table.Row, cfg config) Layout {
	widths, flexible := computeWidths(rows, cfg.available, cfg.autoFit, cfg.measurer)
	width, height := ComputeContentSize(rows, widths)

	heights := make([]float64, len(rows))
	for i, r := range rows {
		heights[i] = max(r.Height, 0)
	}

	return Layout{
		Widths:         widths,
		Flexible:       flexible,
		RowHeights:     heights,
		ContentWidth:   width,
		ContentHeight:  height,
		AvailableWidth: max(cfg.available, 0),
		AutoFit:        cfg.autoFit,
		Viewport:       clampViewport(width, height, cfg.maxWidth, cfg.maxHeight),
	}
}

// clampViewport limits the content size by the optional maxima.
func clampViewport(width, height, maxWidth, maxHeight float64) Viewport {
	v := Viewport{Width: width, Height: height}
	if maxWidth > 0 && width > maxWidth {
		v.Width, v.ScrollX = maxWidth, true
	}
	if maxHeight > 0 && height > maxHeight {
		v.Height, v.ScrollY = maxHeight, true
	}
	return v
}
