package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

// Ellipsis marks truncated cell text.
const Ellipsis = "…"

// PointsPerCell converts point-based layouts (the default approx measurer
// at the default font size) into terminal cells.
const PointsPerCell = measure.DefaultCharWidth * table.DefaultFontSize

// SeparatorStyle selects which grid lines the text sink draws.
type SeparatorStyle struct {
	Horizontal bool // lines between rows
	Vertical   bool // lines between columns
}

var (
	SeparatorsNone       = SeparatorStyle{}
	SeparatorsAll        = SeparatorStyle{Horizontal: true, Vertical: true}
	SeparatorsHorizontal = SeparatorStyle{Horizontal: true}
	SeparatorsVertical   = SeparatorStyle{Vertical: true}
)

// ParseSeparators maps "none", "all", "horizontal", and "vertical" to a
// separator style.
func ParseSeparators(s string) (SeparatorStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SeparatorsAll, nil
	case "none":
		return SeparatorsNone, nil
	case "horizontal", "h":
		return SeparatorsHorizontal, nil
	case "vertical", "v":
		return SeparatorsVertical, nil
	default:
		return SeparatorStyle{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown separator style %q (want none, all, horizontal, vertical)", s)
	}
}

// String returns the name accepted by [ParseSeparators].
func (s SeparatorStyle) String() string {
	switch s {
	case SeparatorsAll:
		return "all"
	case SeparatorsHorizontal:
		return "horizontal"
	case SeparatorsVertical:
		return "vertical"
	default:
		return "none"
	}
}

// TextOption configures [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	unit       float64
	separators SeparatorStyle
	col, row   int
	maxCols    int
	maxLines   int
	sticky     bool
	rows       *Registry[TextRowFunc]
	missing    missingTracker
	sepStyle   lipgloss.Style
}

// WithCellWidth sets how many layout units make up one terminal cell.
// Layouts computed with [measure.Cells] use 1; point-based layouts use
// [PointsPerCell].
func WithCellWidth(units float64) TextOption {
	return func(r *textRenderer) {
		if units > 0 {
			r.unit = units
		}
	}
}

// WithSeparators sets the grid lines to draw. The default is [SeparatorsAll].
func WithSeparators(s SeparatorStyle) TextOption { return func(r *textRenderer) { r.separators = s } }

// WithTextOffset scrolls the output: the first col columns and row rows
// are skipped.
func WithTextOffset(col, row int) TextOption {
	return func(r *textRenderer) { r.col, r.row = max(col, 0), max(row, 0) }
}

// WithTextSize clips the output to cols cells and lines lines. Zero means
// no limit.
func WithTextSize(cols, lines int) TextOption {
	return func(r *textRenderer) { r.maxCols, r.maxLines = cols, lines }
}

// WithStickyHeader keeps leading header rows visible when scrolled down.
func WithStickyHeader() TextOption { return func(r *textRenderer) { r.sticky = true } }

// WithTextRows sets the registry used for custom rows.
func WithTextRows(reg *Registry[TextRowFunc]) TextOption { return func(r *textRenderer) { r.rows = reg } }

// WithTextMissing sets the callback for renderer tokens with no registered
// text renderer.
func WithTextMissing(fn MissingFunc) TextOption { return func(r *textRenderer) { r.missing.fn = fn } }

// RenderText draws t as a terminal grid using the column widths in l.
// Rows and cells beyond the layout are ignored.
func RenderText(t table.Table, l layout.Layout, opts ...TextOption) string {
	r := textRenderer{
		unit:       1,
		separators: SeparatorsAll,
		rows:       TextRows,
		sepStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	for _, opt := range opts {
		opt(&r)
	}

	cols := r.visibleColumns(l)
	if len(cols) == 0 {
		return ""
	}
	total := r.lineWidth(cols)

	var lines []string
	var prevRendered bool
	for _, i := range r.visibleRows(t, l) {
		if prevRendered && r.separators.Horizontal {
			lines = append(lines, r.divider(cols))
		}
		lines = append(lines, r.renderRow(t, l, i, cols, total)...)
		prevRendered = true
	}

	if r.maxLines > 0 && len(lines) > r.maxLines {
		lines = lines[:r.maxLines]
	}
	out := strings.Join(lines, "\n")
	if r.maxCols > 0 && total > r.maxCols {
		out = lipgloss.NewStyle().MaxWidth(r.maxCols).Render(out)
	}
	return out
}

type textColumn struct {
	index int
	width int
}

func (r *textRenderer) cells(units float64) int {
	return max(int(math.Round(units/r.unit)), 0)
}

func (r *textRenderer) visibleColumns(l layout.Layout) []textColumn {
	var cols []textColumn
	for c := r.col; c < len(l.Widths); c++ {
		if w := r.cells(l.Widths[c]); w > 0 {
			cols = append(cols, textColumn{index: c, width: w})
		}
	}
	return cols
}

func (r *textRenderer) visibleRows(t table.Table, l layout.Layout) []int {
	n := min(len(t.Rows), l.RowCount())
	var out []int
	start := min(r.row, n)
	if r.sticky {
		for i := 0; i < start && t.Rows[i].Header; i++ {
			out = append(out, i)
		}
	}
	for i := start; i < n; i++ {
		out = append(out, i)
	}
	return out
}

func (r *textRenderer) lineWidth(cols []textColumn) int {
	total := 0
	for _, c := range cols {
		total += c.width
	}
	if r.separators.Vertical {
		total += len(cols) - 1
	}
	return total
}

func (r *textRenderer) divider(cols []textColumn) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = strings.Repeat("─", c.width)
	}
	joint := ""
	if r.separators.Vertical {
		joint = "┼"
	}
	return r.sepStyle.Render(strings.Join(parts, joint))
}

func (r *textRenderer) renderRow(t table.Table, l layout.Layout, i int, cols []textColumn, total int) []string {
	row := t.Rows[i]
	if row.IsCustom() {
		if fn, ok := r.rows.Lookup(row.Renderer); ok {
			lines := fn(frame(t, l, i), total)
			for j, line := range lines {
				lines[j] = fit(line, total)
			}
			return lines
		}
		r.missing.report(row.Renderer)
	}

	parts := make([]string, len(cols))
	for j, c := range cols {
		var cell table.Cell
		if c.index < len(row.Cells) {
			cell = row.Cells[c.index]
		}
		parts[j] = r.renderCell(cell, c.width, row.Header)
	}
	sep := ""
	if r.separators.Vertical {
		sep = r.sepStyle.Render("│")
	}
	return []string{strings.Join(parts, sep)}
}

func (r *textRenderer) renderCell(cell table.Cell, width int, header bool) string {
	padL, padR := r.cells(cell.Insets.Left), r.cells(cell.Insets.Right)
	content := width - padL - padR
	if content <= 0 {
		padL, padR, content = 0, 0, width
	}

	text := strings.NewReplacer("\n", " ", "\t", " ").Replace(cell.Text)
	text = runewidth.Truncate(text, content, Ellipsis)
	body := strings.Repeat(" ", padL) + alignText(text, content, cell.Style.Align) + strings.Repeat(" ", padR)

	style := lipgloss.NewStyle()
	if header || cell.Font.Bold {
		style = style.Bold(true)
	}
	if cell.Style.Foreground != "" {
		style = style.Foreground(lipgloss.Color(cell.Style.Foreground))
	}
	if cell.Style.Background != "" {
		style = style.Background(lipgloss.Color(cell.Style.Background))
	}
	return style.Render(body)
}

// alignText pads s to width cells according to a.
func alignText(s string, width int, a table.Align) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case table.AlignLeft:
		return s + strings.Repeat(" ", gap)
	case table.AlignRight:
		return strings.Repeat(" ", gap) + s
	default:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
}

// fit pads or truncates an already styled line to exactly width cells.
func fit(line string, width int) string {
	w := lipgloss.Width(line)
	switch {
	case w > width:
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	case w < width:
		return line + strings.Repeat(" ", width-w)
	default:
		return line
	}
}
