package layout

import (
	"math"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

// ResizeEpsilon is the smallest width change that can trigger a relayout.
const ResizeEpsilon = 0.5

// Engine caches the layout of one table and decides when a viewport
// change requires recomputation.
//
// Setting a table always recomputes. A width change recomputes only when
// it exceeds [ResizeEpsilon] and the result can depend on the width, i.e.
// some column is flexible or auto-fit is on. Otherwise the widths come
// from fixed and measured sizes alone and stay as they are.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg       config
	rows      []table.Row
	flexible  bool
	layout    Layout
	lastWidth float64
	passes    int
}

// NewEngine creates an engine with the given options. The available width
// set by [WithAvailableWidth] is the initial viewport width.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cfg: newConfig(opts...)}
	e.lastWidth = e.cfg.available
	e.layout = compute(nil, e.cfg)
	return e
}

// SetTable replaces the table wholesale and recomputes the layout.
func (e *Engine) SetTable(t table.Table) Layout {
	e.rows = t.Rows
	e.flexible = table.HasFlexible(t.Rows)
	e.recompute()
	return e.layout
}

// Resize reports a new available width. It returns true if the layout was
// recomputed.
func (e *Engine) Resize(width float64) bool {
	if len(e.rows) == 0 || width <= 0 {
		return false
	}
	if math.Abs(width-e.lastWidth) <= ResizeEpsilon {
		return false
	}
	e.cfg.available = width
	if !e.NeedsWidth() {
		// Widths do not depend on the viewport; remember it for SetAutoFit.
		e.layout.AvailableWidth = width
		return false
	}
	e.recompute()
	return true
}

// SetAutoFit toggles auto-fit and recomputes the layout.
func (e *Engine) SetAutoFit(enabled bool) Layout {
	e.cfg.autoFit = enabled
	e.recompute()
	return e.layout
}

// NeedsWidth reports whether the current layout depends on the available
// width.
func (e *Engine) NeedsWidth() bool { return e.flexible || e.cfg.autoFit }

// Layout returns the cached layout.
func (e *Engine) Layout() Layout { return e.layout }

// Table returns the current table.
func (e *Engine) Table() table.Table { return table.Table{Rows: e.rows} }

// Passes returns how many layout passes the engine has run.
func (e *Engine) Passes() int { return e.passes }

func (e *Engine) recompute() {
	e.layout = compute(e.rows, e.cfg)
	e.lastWidth = e.cfg.available
	e.passes++
}
