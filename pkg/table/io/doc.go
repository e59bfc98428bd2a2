// Package io reads tables from documents and serializes computed layouts.
//
// # Table Documents
//
// JSON, TOML, and YAML documents share one shape. The short form lists a
// header and a matrix of cell texts, optionally with a width policy per
// column:
//
//	{
//	  "header": ["Name", "Score"],
//	  "rows": [["Alice", "95"], ["Bob", "87"]],
//	  "policies": ["auto", "fixed:80"],
//	  "row_height": 44
//	}
//
// The long form spells out every row and cell, including custom row
// renderers and their values:
//
//	cells:
//	  - header: true
//	    cells:
//	      - {text: Task, width: flexible}
//	  - renderer: progress
//	    values: {progress: "40"}
//
// When both forms are present the long form wins. CSV and TSV files are
// read with the first record as the header.
//
// Use [ReadFile] to pick the decoder from the file extension, or
// [ReadTable] with an explicit [Format] for any io.Reader.
//
// # Layouts
//
// [MarshalLayout] and [WriteLayoutFile] write a [layout.Layout] as indented
// JSON; [UnmarshalLayout] and [ReadLayoutFile] read it back. The layout
// file is what `sheetgrid layout` produces and
// `sheetgrid visualize <table> <layout.json>` consumes.
//
// [layout.Layout]: github.com/matzehuels/sheetgrid/pkg/table/layout.Layout
package io
