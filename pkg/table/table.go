package table

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultMinWidth is the floor for flexible columns whose cells do not
	// declare a minimum width.
	DefaultMinWidth = 80.0

	// DefaultRowHeight is the height of data rows built from strings.
	DefaultRowHeight = 44.0

	// DefaultHeaderHeight is the height of header rows built from strings.
	DefaultHeaderHeight = 50.0

	// DefaultFontSize is the point size used when a cell declares none.
	DefaultFontSize = 14.0

	// DefaultInset is the padding applied on every side of a cell.
	DefaultInset = 8.0

	// DefaultBorderWidth is the cell border stroke width.
	DefaultBorderWidth = 0.5
)

// =============================================================================
// Presentation
// =============================================================================

// Align is the horizontal text alignment inside a cell.
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
)

// Insets is the padding between a cell's border and its content.
type Insets struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
}

// Uniform returns insets with the same value on all sides.
func Uniform(v float64) Insets { return Insets{Top: v, Left: v, Bottom: v, Right: v} }

// Horizontal returns the combined left and right insets.
func (in Insets) Horizontal() float64 { return in.Left + in.Right }

// Font identifies the face a cell's text is measured and drawn with.
type Font struct {
	Family string  `json:"family,omitempty" toml:"family" yaml:"family,omitempty"`
	Size   float64 `json:"size,omitempty" toml:"size" yaml:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty" toml:"bold" yaml:"bold,omitempty"`
}

// PointSize returns the font size, falling back to DefaultFontSize.
func (f Font) PointSize() float64 {
	if f.Size > 0 {
		return f.Size
	}
	return DefaultFontSize
}

// Style carries presentation attributes. Layout never reads it.
type Style struct {
	Align        Align   `json:"align,omitempty" toml:"align" yaml:"align,omitempty"`
	Foreground   string  `json:"foreground,omitempty" toml:"foreground" yaml:"foreground,omitempty"`
	Background   string  `json:"background,omitempty" toml:"background" yaml:"background,omitempty"`
	BorderColor  string  `json:"border_color,omitempty" toml:"border_color" yaml:"border_color,omitempty"`
	BorderWidth  float64 `json:"border_width" toml:"border_width" yaml:"border_width"`
	CornerRadius float64 `json:"corner_radius,omitempty" toml:"corner_radius" yaml:"corner_radius,omitempty"`
}

// =============================================================================
// Cells, Rows, Tables
// =============================================================================

// Cell is a single table cell.
type Cell struct {
	Text     string      `json:"text" toml:"text" yaml:"text"`
	Width    WidthPolicy `json:"width" toml:"width" yaml:"width"`
	MinWidth float64     `json:"min_width,omitempty" toml:"min_width" yaml:"min_width,omitempty"` // 0 means DefaultMinWidth
	Font     Font        `json:"font" toml:"font" yaml:"font"`
	Insets   Insets      `json:"insets" toml:"insets" yaml:"insets"`
	Style    Style       `json:"style" toml:"style" yaml:"style"`
}

// EffectiveMinWidth returns the cell's minimum width, substituting
// DefaultMinWidth when none was declared.
func (c Cell) EffectiveMinWidth() float64 {
	if c.MinWidth > 0 {
		return c.MinWidth
	}
	return DefaultMinWidth
}

// Row is an ordered list of cells. A row with a non-empty Renderer token
// bypasses per-cell rendering; the token is resolved by the rendering layer.
type Row struct {
	Cells    []Cell            `json:"cells" toml:"cells" yaml:"cells"`
	Height   float64           `json:"height" toml:"height" yaml:"height"`
	Header   bool              `json:"header,omitempty" toml:"header" yaml:"header,omitempty"`
	Renderer string            `json:"renderer,omitempty" toml:"renderer" yaml:"renderer,omitempty"`
	Values   map[string]string `json:"values,omitempty" toml:"values" yaml:"values,omitempty"`
}

// IsCustom reports whether the row is handed to a custom renderer.
func (r Row) IsCustom() bool { return r.Renderer != "" }

// HasFlexible reports whether any cell in the row is flexible.
func (r Row) HasFlexible() bool {
	for _, c := range r.Cells {
		if c.Width.IsFlexible() {
			return true
		}
	}
	return false
}

// Table is an ordered list of rows.
type Table struct {
	Rows []Row `json:"rows" toml:"rows" yaml:"rows"`
}

// ColumnCount returns the largest number of cells in any row.
func (t Table) ColumnCount() int { return ColumnCount(t.Rows) }

// RowCount returns the number of rows.
func (t Table) RowCount() int { return len(t.Rows) }

// HasFlexible reports whether any cell in the table is flexible.
func (t Table) HasFlexible() bool { return HasFlexible(t.Rows) }

// ColumnCount returns the largest number of cells in any of rows.
func ColumnCount(rows []Row) int {
	n := 0
	for _, r := range rows {
		n = max(n, len(r.Cells))
	}
	return n
}

// HasFlexible reports whether any cell in rows is flexible.
func HasFlexible(rows []Row) bool {
	for _, r := range rows {
		if r.HasFlexible() {
			return true
		}
	}
	return false
}
