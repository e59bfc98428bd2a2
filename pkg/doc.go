// Package pkg provides the core libraries for SheetGrid table layout.
//
// # Overview
//
// SheetGrid computes column widths for tables whose columns are fixed,
// sized to their content, or flexible, and renders the result. The pkg
// directory is organized into three areas:
//
//  1. [table] - Domain logic (the table model, layout, measuring, rendering)
//  2. [pipeline] - Orchestration (layout → render) with caching
//  3. Infrastructure ([cache], [errors], [observability], [buildinfo])
//
// # Architecture
//
// The typical data flow:
//
//	Table document (.json, .toml, .yaml, .csv)
//	         ↓
//	    [table/io] package (decode into a table.Table)
//	         ↓
//	    [table/layout] package (column widths, row offsets, viewport)
//	         ↓
//	    [table/sink] package (text, SVG, JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sheetgrid/pkg/table"
//	    "github.com/matzehuels/sheetgrid/pkg/table/layout"
//	    "github.com/matzehuels/sheetgrid/pkg/table/sink"
//	)
//
//	t := table.FromStrings(
//	    []string{"Name", "Notes"},
//	    [][]string{{"Alice", "likes wide tables"}},
//	    table.WithPolicies([]table.WidthPolicy{table.Auto(), table.Flexible()}),
//	)
//	l := layout.Compute(t, layout.WithAvailableWidth(480))
//	svg := sink.RenderSVG(t, l)
//
// For windows that change size, [layout.Engine] keeps the last layout and
// recomputes only when the new width can change it.
//
// # Main Packages
//
// [table] - Cells, rows, width policies, and builders.
//
// [table/layout] - The width algorithm and the resize-aware engine.
//
// [table/measure] - Text measurers: a character-count approximation,
// terminal cells, and Go font metrics, plus an LRU-cached wrapper.
//
// [table/sink] - Output formats and the registries for custom row renderers.
//
// [table/io] - Table documents and layout files.
//
// [pipeline] - Validated options and a cache-aware Runner used by both the
// CLI and the HTTP server.
//
// [cache] - File, Redis, and null caches with content-addressed keys.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/table/layout/...   # Layout and property tests
//	go test -run Example ./pkg/...   # Examples only
package pkg
