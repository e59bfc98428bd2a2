package layout

import (
	"testing"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

func flexTable() table.Table {
	return table.Table{Rows: []table.Row{{
		Cells:  []table.Cell{{Width: table.Fixed(100)}, {Width: table.Flexible()}},
		Height: 44,
	}}}
}

func TestEngineSetTableRecomputes(t *testing.T) {
	e := NewEngine(WithAvailableWidth(300), WithMeasurer(perRune))
	if e.Passes() != 0 {
		t.Fatalf("Passes = %d before SetTable, want 0", e.Passes())
	}
	l := e.SetTable(flexTable())
	if !approxEqual(l.Widths, []float64{100, 200}) {
		t.Errorf("Widths = %v, want [100 200]", l.Widths)
	}
	if e.Passes() != 1 {
		t.Errorf("Passes = %d, want 1", e.Passes())
	}

	e.SetTable(table.Table{Rows: []table.Row{fixedRow(10)}})
	if e.Passes() != 2 {
		t.Errorf("Passes = %d after second SetTable, want 2", e.Passes())
	}
	if e.Table().RowCount() != 1 {
		t.Errorf("Table().RowCount() = %d, want 1", e.Table().RowCount())
	}
}

func TestEngineResize(t *testing.T) {
	tests := []struct {
		name    string
		tbl     table.Table
		autoFit bool
		width   float64
		want    bool
	}{
		{name: "flexible beyond epsilon", tbl: flexTable(), width: 400, want: true},
		{name: "within epsilon", tbl: flexTable(), width: 300.4, want: false},
		{name: "exactly epsilon", tbl: flexTable(), width: 300.5, want: false},
		{name: "zero width", tbl: flexTable(), width: 0, want: false},
		{name: "negative width", tbl: flexTable(), width: -10, want: false},
		{name: "no rows", tbl: table.Table{}, width: 500, want: false},
		{name: "fixed only", tbl: table.Table{Rows: []table.Row{fixedRow(50, 50)}}, width: 500, want: false},
		{name: "fixed with auto-fit", tbl: table.Table{Rows: []table.Row{fixedRow(50, 50)}}, autoFit: true, width: 500, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(WithAvailableWidth(300), WithAutoFit(tt.autoFit), WithMeasurer(perRune))
			e.SetTable(tt.tbl)
			before := e.Passes()
			if got := e.Resize(tt.width); got != tt.want {
				t.Errorf("Resize(%v) = %v, want %v", tt.width, got, tt.want)
			}
			wantPasses := before
			if tt.want {
				wantPasses++
			}
			if e.Passes() != wantPasses {
				t.Errorf("Passes = %d, want %d", e.Passes(), wantPasses)
			}
		})
	}
}

func TestEngineResizeUpdatesFlexibleWidth(t *testing.T) {
	e := NewEngine(WithAvailableWidth(300), WithMeasurer(perRune))
	e.SetTable(flexTable())
	e.Resize(500)
	l := e.Layout()
	if !approxEqual(l.Widths, []float64{100, 400}) {
		t.Errorf("Widths = %v, want [100 400]", l.Widths)
	}
	if l.AvailableWidth != 500 {
		t.Errorf("AvailableWidth = %v, want 500", l.AvailableWidth)
	}
}

func TestEngineIgnoredResizeKeepsWidths(t *testing.T) {
	e := NewEngine(WithAvailableWidth(300), WithMeasurer(perRune))
	e.SetTable(table.Table{Rows: []table.Row{fixedRow(50, 50)}})
	if e.Resize(800) {
		t.Fatal("Resize recomputed a fixed-only table")
	}
	l := e.Layout()
	if !approxEqual(l.Widths, []float64{50, 50}) {
		t.Errorf("Widths = %v, want [50 50]", l.Widths)
	}
	if l.AvailableWidth != 800 {
		t.Errorf("AvailableWidth = %v, want 800", l.AvailableWidth)
	}

	// Turning on auto-fit uses the latest reported width.
	l = e.SetAutoFit(true)
	if !approxEqual(l.Widths, []float64{400, 400}) {
		t.Errorf("Widths after SetAutoFit = %v, want [400 400]", l.Widths)
	}
	if !e.NeedsWidth() {
		t.Error("NeedsWidth = false with auto-fit on")
	}
}

func TestEngineResizeAfterSmallSteps(t *testing.T) {
	e := NewEngine(WithAvailableWidth(300), WithMeasurer(perRune))
	e.SetTable(flexTable())
	// Small steps never accumulate past the last computed width.
	for _, w := range []float64{300.2, 300.4, 300.1} {
		if e.Resize(w) {
			t.Fatalf("Resize(%v) recomputed", w)
		}
	}
	if !e.Resize(301) {
		t.Error("Resize(301) did not recompute")
	}
}
