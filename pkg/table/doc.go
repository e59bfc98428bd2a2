// Package table defines the data model for spreadsheet-style tables.
//
// A [Table] is an ordered list of [Row] values, each holding [Cell] values.
// Cells carry their text, a [WidthPolicy] that tells the layout engine how
// the cell contributes to its column width, and presentation attributes
// (font, insets, colors) that only the rendering layer reads.
//
// # Width Policies
//
//   - [Fixed]: the column is at least as wide as the declared width
//   - [Auto]: the column fits the measured text plus horizontal insets
//   - [Flexible]: the column takes a share of whatever width remains
//
// A single flexible cell makes its whole column flexible.
//
// # Custom Rows
//
// A row whose Renderer token is non-empty opts out of per-cell rendering.
// The token is looked up by the rendering layer (see package sink), which
// hands the row and the computed column widths to the registered renderer.
// Layout treats custom rows like any other row.
//
// # Construction
//
// Most tables start from strings:
//
//	t := table.FromStrings(
//	    []string{"Name", "Score"},
//	    [][]string{{"Alice", "95"}},
//	    table.WithPolicies([]table.WidthPolicy{table.Auto(), table.Fixed(80)}),
//	)
//
// For full control, build rows from [NewCell] and [NewRow].
package table
