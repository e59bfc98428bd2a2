package layout

import (
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

// ComputeColumnWidths assigns a width to every column of rows.
//
// Fixed and auto cells contribute the maximum of their declared or measured
// widths (auto adds the cell's horizontal insets). Any flexible cell makes
// its whole column flexible: flexible columns split the width left over
// from available and are floored at the largest minimum width declared in
// the column. With autoFit, leftover width is spread equally over all
// columns.
//
// Auto columns have no minimum width floor; only flexible columns are
// floored. Widths never go below zero, so a negative fixed width yields 0.
//
// The result may sum to more than available when minimum widths exceed the
// remaining space. Empty rows yield an empty slice. A nil measurer uses
// [measure.Approx].
func ComputeColumnWidths(rows []table.Row, available float64, autoFit bool, m measure.Measurer) []float64 {
	widths, _ := computeWidths(rows, available, autoFit, m)
	return widths
}

// computeWidths is ComputeColumnWidths that also reports which columns are
// flexible.
func computeWidths(rows []table.Row, available float64, autoFit bool, m measure.Measurer) ([]float64, []bool) {
	columns := table.ColumnCount(rows)
	if columns == 0 {
		return []float64{}, []bool{}
	}
	if m == nil {
		m = measure.Approx{}
	}
	available = max(available, 0)

	widths := make([]float64, columns)
	flexible := make([]bool, columns)
	minWidths := make([]float64, columns)
	flexCount := 0

	for c := range columns {
		var widest, floor float64
		for _, r := range rows {
			if c >= len(r.Cells) {
				continue
			}
			cell := r.Cells[c]
			floor = max(floor, cell.EffectiveMinWidth())
			switch cell.Width.Kind {
			case table.KindFlexible:
				flexible[c] = true
			case table.KindFixed:
				widest = max(widest, cell.Width.Value)
			default:
				widest = max(widest, m.Measure(cell.Text, cell.Font)+cell.Insets.Horizontal())
			}
		}
		minWidths[c] = floor
		if flexible[c] {
			flexCount++
			continue
		}
		widths[c] = widest
	}

	if flexCount > 0 {
		remaining := max(available-sum(widths), 0)
		share := remaining / float64(flexCount)
		for c := range columns {
			if flexible[c] {
				widths[c] = max(share, minWidths[c])
			}
		}
	}

	if autoFit && available > 0 {
		if total := sum(widths); total < available {
			extra := (available - total) / float64(columns)
			for c := range widths {
				widths[c] += extra
			}
		}
	}

	return widths, flexible
}

// ComputeContentSize returns the total width of widths and the total height
// of rows.
func ComputeContentSize(rows []table.Row, widths []float64) (width, height float64) {
	for _, r := range rows {
		height += r.Height
	}
	return sum(widths), max(height, 0)
}

// sum adds xs, clamping a negative total to zero.
func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return max(total, 0)
}
