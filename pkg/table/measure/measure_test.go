package measure

import (
	"math"
	"testing"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
)

func TestApprox(t *testing.T) {
	tests := []struct {
		name string
		m    Approx
		text string
		font table.Font
		want float64
	}{
		{name: "default ratio", text: "abcd", font: table.Font{Size: 10}, want: 4 * 0.55 * 10},
		{name: "default size", text: "ab", want: 2 * 0.55 * table.DefaultFontSize},
		{name: "custom ratio", m: Approx{CharWidth: 1}, text: "abc", font: table.Font{Size: 2}, want: 6},
		{name: "runes not bytes", m: Approx{CharWidth: 1}, text: "héllo", font: table.Font{Size: 1}, want: 5},
		{name: "empty", text: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Measure(tt.text, tt.font); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Measure(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCells(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"hello", 5},
		{"", 0},
		{"日本", 4},
		{"ab\nabcd", 4},
	}
	for _, tt := range tests {
		if got := (Cells{}).Measure(tt.text, table.Font{}); got != tt.want {
			t.Errorf("Cells.Measure(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFont(t *testing.T) {
	f := NewFont()
	defer f.Close()

	small := f.Measure("Alice", table.Font{Size: 10})
	large := f.Measure("Alice", table.Font{Size: 20})
	if small <= 0 {
		t.Fatalf("Measure returned %v, want > 0", small)
	}
	if large <= small {
		t.Errorf("larger font should be wider: %v <= %v", large, small)
	}
	if f.Measure("", table.Font{Size: 10}) != 0 {
		t.Error("empty text should measure 0")
	}
	if wide := f.Measure("WWWW", table.Font{Size: 12}); wide <= f.Measure("iiii", table.Font{Size: 12}) {
		t.Error("W should be wider than i")
	}
}

type countingMeasurer struct{ calls int }

func (c *countingMeasurer) Measure(text string, _ table.Font) float64 {
	c.calls++
	return float64(len(text))
}

func TestCached(t *testing.T) {
	inner := &countingMeasurer{}
	m := Cached(inner, 2)

	for range 3 {
		if got := m.Measure("abc", table.Font{}); got != 3 {
			t.Fatalf("Measure = %v, want 3", got)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}

	m.Measure("abc", table.Font{Size: 20})
	if inner.calls != 2 {
		t.Errorf("different font should miss, calls = %d", inner.calls)
	}

	m.Measure("x", table.Font{})
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2 (LRU bound)", m.Len())
	}

	m.Purge()
	if m.Len() != 0 {
		t.Errorf("Len after Purge = %d", m.Len())
	}
}

func TestParse(t *testing.T) {
	for _, name := range append([]string{""}, Names...) {
		if m, err := Parse(name); err != nil || m == nil {
			t.Errorf("Parse(%q) = %v, %v", name, m, err)
		}
	}

	_, err := Parse("ruler")
	if !errors.Is(err, errors.ErrCodeInvalidMeasurer) {
		t.Errorf("Parse(ruler) error = %v, want %s", err, errors.ErrCodeInvalidMeasurer)
	}
}

func TestFunc(t *testing.T) {
	var m Measurer = Func(func(text string, _ table.Font) float64 { return 7 })
	if m.Measure("anything", table.Font{}) != 7 {
		t.Error("Func adapter did not call function")
	}
}
