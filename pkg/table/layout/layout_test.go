package layout

import (
	"testing"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

func TestCompute(t *testing.T) {
	tbl := table.Table{Rows: []table.Row{
		{Cells: []table.Cell{{Width: table.Fixed(60)}, {Width: table.Flexible()}}, Height: 50, Header: true},
		{Cells: []table.Cell{{Width: table.Fixed(40)}, {Width: table.Auto()}}, Height: 44},
	}}
	l := Compute(tbl, WithAvailableWidth(260), WithMeasurer(perRune))

	if !approxEqual(l.Widths, []float64{60, 200}) {
		t.Errorf("Widths = %v, want [60 200]", l.Widths)
	}
	if l.Flexible[0] || !l.Flexible[1] || !l.HasFlexible() {
		t.Errorf("Flexible = %v, want [false true]", l.Flexible)
	}
	if l.ContentWidth != 260 || l.ContentHeight != 94 {
		t.Errorf("content = (%v, %v), want (260, 94)", l.ContentWidth, l.ContentHeight)
	}
	if l.ColumnCount() != 2 || l.RowCount() != 2 || l.IsEmpty() {
		t.Errorf("counts = (%d, %d), empty=%v", l.ColumnCount(), l.RowCount(), l.IsEmpty())
	}
	if l.Viewport.ScrollX || l.Viewport.ScrollY {
		t.Errorf("Viewport = %+v, want no scrolling", l.Viewport)
	}
}

func TestComputeEmpty(t *testing.T) {
	l := Compute(table.Table{}, WithAvailableWidth(300))
	if !l.IsEmpty() || l.ContentWidth != 0 || l.ContentHeight != 0 {
		t.Errorf("Compute(empty) = %+v", l)
	}
}

func TestComputeViewport(t *testing.T) {
	rows := []table.Row{fixedRow(300, 200), fixedRow(10, 10), fixedRow(10, 10)}
	tests := []struct {
		name string
		opts []Option
		want Viewport
	}{
		{name: "no limits", want: Viewport{Width: 500, Height: 132}},
		{name: "max width", opts: []Option{WithMaxWidth(320)}, want: Viewport{Width: 320, Height: 132, ScrollX: true}},
		{name: "max height", opts: []Option{WithMaxHeight(100)}, want: Viewport{Width: 500, Height: 100, ScrollY: true}},
		{name: "limits larger than content", opts: []Option{WithMaxWidth(1000), WithMaxHeight(1000)}, want: Viewport{Width: 500, Height: 132}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Compute(table.Table{Rows: rows}, tt.opts...)
			if l.Viewport != tt.want {
				t.Errorf("Viewport = %+v, want %+v", l.Viewport, tt.want)
			}
		})
	}
}

func TestLayoutGeometry(t *testing.T) {
	l := Layout{
		Widths:       []float64{10, 20, 30},
		RowHeights:   []float64{50, 44},
		ContentWidth: 60,
	}
	tests := []struct {
		name string
		got  Rect
		want Rect
	}{
		{name: "first cell", got: l.CellRect(0, 0), want: Rect{X: 0, Y: 0, W: 10, H: 50}},
		{name: "last cell", got: l.CellRect(1, 2), want: Rect{X: 30, Y: 50, W: 30, H: 44}},
		{name: "row", got: l.RowRect(1), want: Rect{X: 0, Y: 50, W: 60, H: 44}},
		{name: "column out of range", got: l.CellRect(0, 5), want: Rect{X: 60, Y: 0, W: 0, H: 50}},
		{name: "row out of range", got: l.RowRect(3), want: Rect{X: 0, Y: 94, W: 60, H: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestComputeNegativeHeight(t *testing.T) {
	l := Compute(table.Table{Rows: []table.Row{{Cells: []table.Cell{{Width: table.Fixed(1)}}, Height: -5}}})
	if l.RowHeights[0] != 0 || l.ContentHeight != 0 {
		t.Errorf("heights = %v, content %v, want clamped to 0", l.RowHeights, l.ContentHeight)
	}
}
