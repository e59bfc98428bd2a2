package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sheetgrid/pkg/cache"
	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/observability"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

// memCache is an in-memory cache.Cache that counts reads and writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = bytes.Clone(data)
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func scoreTable() table.Table {
	return table.FromStrings(
		[]string{"Name", "Score"},
		[][]string{{"Alice", "95"}, {"Bob", "87"}},
		table.WithPolicies([]table.WidthPolicy{table.Auto(), table.Fixed(80)}),
	)
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Measurer != DefaultMeasurer {
		t.Errorf("Measurer = %q, want %q", opts.Measurer, DefaultMeasurer)
	}
	if !slices.Equal(opts.Formats, []string{FormatText}) {
		t.Errorf("Formats = %v, want [text]", opts.Formats)
	}
	if opts.CellWidth != sink.PointsPerCell {
		t.Errorf("CellWidth = %v, want %v", opts.CellWidth, sink.PointsPerCell)
	}
	if opts.Separators != DefaultSeparators {
		t.Errorf("Separators = %q, want %q", opts.Separators, DefaultSeparators)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	cells := Options{Measurer: "cells"}
	cells.SetLayoutDefaults()
	cells.SetRenderDefaults()
	if cells.CellWidth != 1 {
		t.Errorf("cells CellWidth = %v, want 1", cells.CellWidth)
	}

	border := Options{Border: 1}
	border.SetRenderDefaults()
	if border.BorderColor != DefaultBorderColor {
		t.Errorf("BorderColor = %q, want %q", border.BorderColor, DefaultBorderColor)
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"valid", Options{Formats: []string{"svg"}}, ""},
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"negative max height", Options{MaxHeight: -5}, errors.ErrCodeInvalidInput},
		{"unknown measurer", Options{Measurer: "ruler"}, errors.ErrCodeInvalidMeasurer},
		{"unknown format", Options{Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"empty format", Options{Formats: []string{" "}}, errors.ErrCodeInvalidFormat},
		{"unknown separators", Options{Separators: "dotted"}, errors.ErrCodeInvalidInput},
		{"negative radius", Options{CornerRadius: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateForRenderNormalizesFormats(t *testing.T) {
	opts := Options{Formats: []string{"SVG", " json ", "svg"}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(opts.Formats, []string{"svg", "json"}) {
		t.Errorf("Formats = %v, want [svg json]", opts.Formats)
	}
}

func TestArtifactKeyOptsPerFormat(t *testing.T) {
	opts := Options{Border: 2, CornerRadius: 6, Separators: "none", CellWidth: 1}
	opts.SetRenderDefaults()

	text := opts.ArtifactKeyOpts(FormatText)
	if text.Border != 0 || text.Separators != "none" || text.CellWidth != 1 {
		t.Errorf("text key opts = %+v", text)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	if svg.Separators != "" || svg.Border != 2 || svg.CornerRadius != 6 || svg.BorderColor != DefaultBorderColor {
		t.Errorf("svg key opts = %+v", svg)
	}
	if js := opts.ArtifactKeyOpts(FormatJSON); js != (cache.ArtifactKeyOpts{Format: FormatJSON}) {
		t.Errorf("json key opts = %+v", js)
	}
}

func TestComputeLayout(t *testing.T) {
	tbl := scoreTable()
	l, err := ComputeLayout(tbl, Options{Measurer: "cells", Width: 200})
	if err != nil {
		t.Fatal(err)
	}
	// "Alice" is 5 cells plus 8 on each side.
	want := []float64{5 + 2*table.DefaultInset, 80}
	if !slices.Equal(l.Widths, want) {
		t.Errorf("Widths = %v, want %v", l.Widths, want)
	}
	if l.AvailableWidth != 200 {
		t.Errorf("AvailableWidth = %v, want 200", l.AvailableWidth)
	}

	if _, err := ComputeLayout(tbl, Options{Measurer: "ruler"}); !errors.Is(err, errors.ErrCodeInvalidMeasurer) {
		t.Errorf("unknown measurer error = %v", err)
	}
}

func TestRunnerLayoutCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	tbl := scoreTable()
	opts := Options{Width: 300, AutoFit: true}

	first, hit, err := r.LayoutWithCacheInfo(ctx, tbl, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}
	if c.sets != 1 {
		t.Errorf("sets = %d, want 1", c.sets)
	}

	second, hit, err := r.LayoutWithCacheInfo(ctx, tbl, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second layout should hit the cache")
	}
	if !slices.Equal(first.Widths, second.Widths) {
		t.Errorf("cached widths %v != computed %v", second.Widths, first.Widths)
	}

	opts.Refresh = true
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, tbl, opts); hit {
		t.Error("refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Width = 400
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, tbl, opts); hit {
		t.Error("a different width should not share a cache entry")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Width: 300, Formats: []string{"text", "svg", "json"}}

	res, err := r.Execute(ctx, scoreTable(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.RowCount != 3 || res.Stats.ColumnCount != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.TableHash == "" {
		t.Error("TableHash is empty")
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("artifacts = %d, want 3", len(res.Artifacts))
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", res.Artifacts["svg"])
	}
	if !bytes.Contains(res.Artifacts["text"], []byte("Alice")) {
		t.Errorf("text artifact missing cell text:\n%s", res.Artifacts["text"])
	}
	var decoded map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &decoded); err != nil {
		t.Errorf("json artifact: %v", err)
	}

	again, err := r.Execute(ctx, scoreTable(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want both hits", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts["svg"], res.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), scoreTable(), Options{Formats: []string{"pdf"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerRenderChangesWithText(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Measurer: "cells", Formats: []string{"text"}, CellWidth: 1}

	a := table.FromStrings(nil, [][]string{{"abc"}}, table.WithPolicies([]table.WidthPolicy{table.Fixed(10)}))
	b := table.FromStrings(nil, [][]string{{"xyz"}}, table.WithPolicies([]table.WidthPolicy{table.Fixed(10)}))

	la, _ := r.Layout(ctx, a, opts)
	lb, _ := r.Layout(ctx, b, opts)
	if !slices.Equal(la.Widths, lb.Widths) {
		t.Fatalf("fixed widths differ: %v vs %v", la.Widths, lb.Widths)
	}

	outA, err := r.Render(ctx, a, la, opts)
	if err != nil {
		t.Fatal(err)
	}
	outB, hit, err := r.RenderWithCacheInfo(ctx, b, lb, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("same geometry with different text must not hit the cache")
	}
	if bytes.Equal(outA["text"], outB["text"]) {
		t.Error("text output should differ")
	}
}

// recordingHooks counts pipeline events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	layouts int
	renders int
	missing []string
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *recordingHooks) OnMissingRenderer(_ context.Context, format, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.missing = append(h.missing, format+":"+token)
}

func TestRunnerReportsMissingRenderers(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	tbl := scoreTable()
	tbl.Rows = append(tbl.Rows,
		table.NewCustomRow("sparkline", 30, nil, table.NewCell("a")),
		table.NewCustomRow("sparkline", 30, nil, table.NewCell("b")),
		table.NewCustomRow("progress", 30, map[string]string{"progress": "40"}, table.NewCell("Upload")),
	)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), tbl, Options{Formats: []string{"text", "svg"}}); err != nil {
		t.Fatal(err)
	}

	want := []string{"svg:sparkline", "text:sparkline"}
	slices.Sort(hooks.missing)
	if !slices.Equal(hooks.missing, want) {
		t.Errorf("missing = %v, want %v", hooks.missing, want)
	}
	if hooks.layouts != 1 || hooks.renders != 1 {
		t.Errorf("layouts = %d, renders = %d, want 1 and 1", hooks.layouts, hooks.renders)
	}
}

func TestRegisterBuiltinRows(t *testing.T) {
	RegisterBuiltinRows()
	RegisterBuiltinRows()
	for _, token := range []string{"card", "progress", "toggle"} {
		if _, ok := sink.TextRows.Lookup(token); !ok {
			t.Errorf("text renderer %q not registered", token)
		}
		if _, ok := sink.SVGRows.Lookup(token); !ok {
			t.Errorf("svg renderer %q not registered", token)
		}
	}
}
