package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
)

func newTestViewModel(t *testing.T, policies ...table.WidthPolicy) *viewModel {
	t.Helper()
	return newTestViewModelWith(t, pipeline.Options{Measurer: measure.NameCells}, policies...)
}

func newTestViewModelWith(t *testing.T, opts pipeline.Options, policies ...table.WidthPolicy) *viewModel {
	t.Helper()
	tbl := table.FromStrings(
		[]string{"Name", "Notes"},
		[][]string{{"Alice", "likes wide tables"}, {"Bob", "prefers narrow ones"}},
		table.WithPolicies(policies),
	)
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	m, err := measure.Parse(opts.Measurer)
	if err != nil {
		t.Fatal(err)
	}
	return newViewModel(tbl, opts, m)
}

func TestViewModelResizeRelayoutsFlexible(t *testing.T) {
	vm := newTestViewModel(t, table.Auto(), table.Flexible())
	if vm.View() != "Loading..." {
		t.Errorf("View before first size = %q", vm.View())
	}

	vm.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	passes := vm.engine.Passes()
	narrow := vm.engine.Layout().Widths[1]
	if !strings.Contains(vm.View(), "Alice") {
		t.Errorf("View missing table content:\n%s", vm.View())
	}

	vm.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if vm.engine.Passes() != passes {
		t.Error("height-only change should not relayout")
	}

	vm.Update(tea.WindowSizeMsg{Width: 140, Height: 20})
	if vm.engine.Passes() != passes+1 {
		t.Errorf("passes = %d, want %d", vm.engine.Passes(), passes+1)
	}
	if wide := vm.engine.Layout().Widths[1]; wide <= narrow {
		t.Errorf("flexible column did not grow: %v -> %v", narrow, wide)
	}
}

func TestViewModelResizeKeepsAutoOnlyLayout(t *testing.T) {
	vm := newTestViewModel(t, table.Auto(), table.Auto())
	vm.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	passes := vm.engine.Passes()

	vm.Update(tea.WindowSizeMsg{Width: 140, Height: 12})
	if vm.engine.Passes() != passes {
		t.Error("auto-only table should not relayout on resize")
	}

	vm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if !vm.autoFit || vm.engine.Passes() != passes+1 {
		t.Errorf("auto-fit toggle: autoFit=%v passes=%d", vm.autoFit, vm.engine.Passes())
	}
	if got := vm.engine.Layout().ContentWidth; math.Abs(got-140) > 1e-9 {
		t.Errorf("auto-fit content width = %v, want 140", got)
	}
}

func TestViewModelKeys(t *testing.T) {
	vm := newTestViewModel(t, table.Auto(), table.Auto())
	vm.Update(tea.WindowSizeMsg{Width: 60, Height: 12})

	vm.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if vm.col != 0 {
		t.Errorf("col = %d after left at start", vm.col)
	}
	vm.Update(tea.KeyMsg{Type: tea.KeyRight})
	vm.Update(tea.KeyMsg{Type: tea.KeyRight})
	if vm.col != 1 {
		t.Errorf("col = %d, want clamp at 1", vm.col)
	}
	if strings.Contains(vm.viewport.View(), "Alice") {
		t.Error("scrolled view should hide the first column")
	}

	_, cmd := vm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewModelScrollRows(t *testing.T) {
	tests := []struct {
		sticky     bool
		wantHeader bool
	}{
		{sticky: false, wantHeader: false},
		{sticky: true, wantHeader: true},
	}
	for _, tt := range tests {
		name := "plain"
		if tt.sticky {
			name = "sticky header"
		}
		t.Run(name, func(t *testing.T) {
			opts := pipeline.Options{Measurer: measure.NameCells, StickyHeader: tt.sticky}
			vm := newTestViewModelWith(t, opts, table.Auto(), table.Auto())
			vm.Update(tea.WindowSizeMsg{Width: 60, Height: 12})

			vm.Update(tea.KeyMsg{Type: tea.KeyUp})
			if vm.row != 0 {
				t.Errorf("row = %d after up at start", vm.row)
			}
			for range 5 {
				vm.Update(tea.KeyMsg{Type: tea.KeyDown})
			}
			if vm.row != 2 {
				t.Errorf("row = %d, want clamp at 2", vm.row)
			}

			view := vm.viewport.View()
			if strings.Contains(view, "Alice") || !strings.Contains(view, "Bob") {
				t.Errorf("scrolled view should start at Bob:\n%s", view)
			}
			if got := strings.Contains(view, "Name"); got != tt.wantHeader {
				t.Errorf("header visible = %v, want %v:\n%s", got, tt.wantHeader, view)
			}
		})
	}
}

func TestViewModelReportsMissingRenderers(t *testing.T) {
	pipeline.RegisterBuiltinRows()
	vm := newTestViewModel(t, table.Auto(), table.Auto())
	vm.table.Rows = append(vm.table.Rows, table.NewCustomRow("sparkline", 24, nil))
	vm.engine.SetTable(vm.table)

	vm.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	if len(vm.missing) != 1 || vm.missing[0] != "sparkline" {
		t.Errorf("missing = %v", vm.missing)
	}
	if !strings.Contains(vm.View(), "no renderer: sparkline") {
		t.Error("status line should name the missing renderer")
	}
}
