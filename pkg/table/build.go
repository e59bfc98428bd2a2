package table

// HeaderBackground is the fill applied to header cells built by [FromStrings].
const HeaderBackground = "#E5E5EA"

// CellOption configures a cell created by [NewCell].
type CellOption func(*Cell)

// WithWidth sets the cell's width policy.
func WithWidth(p WidthPolicy) CellOption { return func(c *Cell) { c.Width = p } }

// WithMinWidth sets the cell's minimum width for flexible columns.
func WithMinWidth(w float64) CellOption { return func(c *Cell) { c.MinWidth = w } }

// WithFont sets the cell's font.
func WithFont(f Font) CellOption { return func(c *Cell) { c.Font = f } }

// WithInsets sets the cell's content insets.
func WithInsets(in Insets) CellOption { return func(c *Cell) { c.Insets = in } }

// WithStyle sets the cell's presentation style.
func WithStyle(s Style) CellOption { return func(c *Cell) { c.Style = s } }

// WithAlign sets the cell's text alignment.
func WithAlign(a Align) CellOption { return func(c *Cell) { c.Style.Align = a } }

// WithBackground sets the cell's background color.
func WithBackground(color string) CellOption { return func(c *Cell) { c.Style.Background = color } }

// NewCell creates a cell with the package defaults: auto width, 14pt font,
// 8pt insets, centered text, and a thin border.
func NewCell(text string, opts ...CellOption) Cell {
	c := Cell{
		Text:   text,
		Width:  Auto(),
		Font:   Font{Size: DefaultFontSize},
		Insets: Uniform(DefaultInset),
		Style: Style{
			Align:       AlignCenter,
			BorderWidth: DefaultBorderWidth,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewRow creates a data row of the default height.
func NewRow(cells ...Cell) Row {
	return Row{Cells: cells, Height: DefaultRowHeight}
}

// NewHeader creates a header row of the default header height.
func NewHeader(cells ...Cell) Row {
	return Row{Cells: cells, Height: DefaultHeaderHeight, Header: true}
}

// NewCustomRow creates a row handed to the renderer registered under token.
func NewCustomRow(token string, height float64, values map[string]string, cells ...Cell) Row {
	return Row{Cells: cells, Height: height, Renderer: token, Values: values}
}

// =============================================================================
// String Matrix Construction
// =============================================================================

// BuildOption configures [FromStrings].
type BuildOption func(*buildConfig)

type buildConfig struct {
	headerHeight float64
	rowHeight    float64
	policies     []WidthPolicy
}

// WithHeaderHeight sets the height of the header row.
func WithHeaderHeight(h float64) BuildOption { return func(c *buildConfig) { c.headerHeight = h } }

// WithRowHeight sets the height of every data row.
func WithRowHeight(h float64) BuildOption { return func(c *buildConfig) { c.rowHeight = h } }

// WithPolicies sets per-column width policies. Columns beyond the end of
// the list use [Auto].
func WithPolicies(p []WidthPolicy) BuildOption { return func(c *buildConfig) { c.policies = p } }

// FromStrings builds a table from an optional header and a matrix of cell
// texts. A nil header produces no header row.
func FromStrings(header []string, data [][]string, opts ...BuildOption) Table {
	cfg := buildConfig{headerHeight: DefaultHeaderHeight, rowHeight: DefaultRowHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	rows := make([]Row, 0, len(data)+1)
	if header != nil {
		cells := make([]Cell, len(header))
		for i, text := range header {
			cells[i] = NewCell(text, WithWidth(cfg.policy(i)), WithBackground(HeaderBackground))
		}
		rows = append(rows, Row{Cells: cells, Height: cfg.headerHeight, Header: true})
	}
	for _, record := range data {
		cells := make([]Cell, len(record))
		for i, text := range record {
			cells[i] = NewCell(text, WithWidth(cfg.policy(i)))
		}
		rows = append(rows, Row{Cells: cells, Height: cfg.rowHeight})
	}
	return Table{Rows: rows}
}

func (c buildConfig) policy(i int) WidthPolicy {
	if i < len(c.policies) {
		return c.policies[i]
	}
	return Auto()
}
