// Package measure provides text measurement for auto-width columns.
//
// The layout engine never measures text itself; it asks a [Measurer].
// Pick the implementation that matches the output surface:
//
//   - [Approx]: a per-rune heuristic scaled by font size, the default
//   - [Cells]: terminal cells, for text rendering
//   - [Font]: glyph advances from the embedded Go fonts, for SVG
//
// Wrap any of them with [Cached] when the same strings are measured often.
package measure

import (
	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
)

// Measurer reports the intrinsic width of text drawn with font, excluding
// any cell insets.
type Measurer interface {
	Measure(text string, font table.Font) float64
}

// Func adapts a plain function to [Measurer].
type Func func(text string, font table.Font) float64

// Measure calls f.
func (f Func) Measure(text string, font table.Font) float64 { return f(text, font) }

// Measurer names accepted by [Parse].
const (
	NameApprox = "approx"
	NameCells  = "cells"
	NameFont   = "font"
)

// Names lists the measurer names accepted by [Parse].
var Names = []string{NameApprox, NameCells, NameFont}

// Parse returns the measurer registered under name. An empty name selects
// [Approx].
func Parse(name string) (Measurer, error) {
	switch name {
	case "", NameApprox:
		return Approx{}, nil
	case NameCells:
		return Cells{}, nil
	case NameFont:
		return NewFont(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidMeasurer,
			"unknown measurer %q (must be one of: approx, cells, font)", name)
	}
}
