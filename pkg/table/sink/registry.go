package sink

import (
	"bytes"
	"slices"
	"sync"

	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
)

// RowFrame is everything a custom row renderer receives: the row itself,
// its position in the table, the computed column widths, and the row's
// rectangle in layout units.
type RowFrame struct {
	Row    table.Row
	Index  int
	Widths []float64
	Rect   layout.Rect
}

// TextRowFunc renders a custom row as terminal lines. Each line is padded
// or truncated to the table width by the caller; width is in cells.
type TextRowFunc func(f RowFrame, width int) []string

// SVGRowFunc writes a custom row's SVG elements into buf.
type SVGRowFunc func(buf *bytes.Buffer, f RowFrame)

// Registry maps renderer tokens to row renderers. It is safe for
// concurrent use.
type Registry[F any] struct {
	mu sync.RWMutex
	fs map[string]F
}

// NewRegistry returns an empty registry.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{fs: make(map[string]F)}
}

// Register installs f under token, replacing any previous renderer.
func (r *Registry[F]) Register(token string, f F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fs[token] = f
}

// Lookup returns the renderer registered under token.
func (r *Registry[F]) Lookup(token string) (F, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fs[token]
	return f, ok
}

// Tokens returns the registered tokens in sorted order.
func (r *Registry[F]) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := make([]string, 0, len(r.fs))
	for t := range r.fs {
		tokens = append(tokens, t)
	}
	slices.Sort(tokens)
	return tokens
}

// Default registries used when a render call does not supply its own.
var (
	TextRows = NewRegistry[TextRowFunc]()
	SVGRows  = NewRegistry[SVGRowFunc]()
)

// frame builds the RowFrame for row i.
func frame(t table.Table, l layout.Layout, i int) RowFrame {
	return RowFrame{Row: t.Rows[i], Index: i, Widths: l.Widths, Rect: l.RowRect(i)}
}

// MissingFunc is called once per render for every renderer token that has
// no registered renderer. Such rows fall back to per-cell rendering.
type MissingFunc func(token string)

type missingTracker struct {
	fn   MissingFunc
	seen map[string]bool
}

func (m *missingTracker) report(token string) {
	if m.fn == nil || m.seen[token] {
		return
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	m.seen[token] = true
	m.fn(token)
}
