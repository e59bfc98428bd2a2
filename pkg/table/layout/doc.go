// Package layout computes column widths and content size for tables.
//
// # Overview
//
// Layout is a single deterministic pass over the rows of a [table.Table].
// It never touches a view tree, so the result can be computed, tested, and
// cached without any rendering runtime. Sinks in package sink consume the
// resulting [Layout] to produce terminal text, SVG, or JSON.
//
// # Width Allocation
//
// For every column the engine looks at each row that has a cell there:
//
//   - Fixed cells contribute their declared width
//   - Auto cells contribute their measured text width plus horizontal insets
//   - Any flexible cell makes the whole column flexible
//
// Non-flexible columns take the maximum contribution. Flexible columns
// split whatever width the others leave over, each floored at the largest
// minimum width declared in the column (80 by default). When auto-fit is
// on and the columns still do not fill the viewport, the surplus is spread
// equally over every column.
//
// Content can end up wider than the viewport when minimum widths win; the
// host is expected to scroll horizontally.
//
// # Measuring Text
//
// Text measurement is injected through [measure.Measurer] so that the same
// algorithm serves terminal cells, font metrics, or a fake in tests:
//
//	l := layout.Compute(t,
//	    layout.WithAvailableWidth(320),
//	    layout.WithMeasurer(measure.Cells{}),
//	)
//
// # Recomputing on Resize
//
// [Engine] holds the layout of one table and applies the relayout policy:
// new rows always recompute, a viewport change of more than half a unit
// recomputes only if some column is flexible or auto-fit is on.
//
//	e := layout.NewEngine(layout.WithAutoFit(true))
//	e.SetTable(t)
//	if e.Resize(480) {
//	    redraw(e.Layout())
//	}
package layout
