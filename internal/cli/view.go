package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	"github.com/matzehuels/sheetgrid/pkg/table"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
	"github.com/matzehuels/sheetgrid/pkg/table/measure"
	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

// viewCommand creates the interactive table viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "view [table]",
		Short: "Browse a table in the terminal",
		Long: `Browse a table in the terminal.

The viewer lays the table out against the terminal width and relays it out
whenever the window is resized, if any column is flexible or auto-fit is on.
With --sticky-header the header rows stay on screen while scrolling down.

Keys: ↑/↓ scroll rows, ←/→ scroll columns, a toggle auto-fit, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], flags.resolve(cmd, c.Config))
		},
	}

	flags.registerLayout(cmd)
	flags.registerRender(cmd, false)

	return cmd
}

// runView loads the table and runs the viewer until the user quits.
func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	t, err := tableio.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load table %s: %w", input, err)
	}

	m, err := measure.Parse(opts.Measurer)
	if err != nil {
		return err
	}
	if closer, ok := m.(io.Closer); ok {
		defer closer.Close()
	}
	pipeline.RegisterBuiltinRows()

	model := newViewModel(t, opts, measure.Cached(m, measure.DefaultCacheSize))
	model.title = input
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if vm, ok := final.(*viewModel); ok {
		loggerFromContext(ctx).Debug("viewer closed", "layout_passes", vm.engine.Passes(), "missing_renderers", vm.missing)
	}
	return nil
}

// =============================================================================
// Key Bindings
// =============================================================================

type viewKeys struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	AutoFit key.Binding
	Quit    key.Binding
}

var defaultViewKeys = viewKeys{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
	AutoFit: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-fit")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k viewKeys) help() string {
	parts := make([]string, 0, 6)
	for _, b := range []key.Binding{k.Up, k.Down, k.Left, k.Right, k.AutoFit, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// View Model
// =============================================================================

// statusHeight is the number of lines below the viewport.
const statusHeight = 1

// viewModel is the bubbletea model of the table viewer. The layout engine
// owns the relayout decision; the model only reports window sizes to it.
// Scrolling goes through the text sink offsets so sticky headers stay put.
type viewModel struct {
	table    table.Table
	opts     pipeline.Options
	engine   *layout.Engine
	autoFit  bool
	textOpts []sink.TextOption
	keys     viewKeys

	viewport viewport.Model
	ready    bool
	width    int
	col      int
	row      int
	title    string
	missing  []string
}

func newViewModel(t table.Table, opts pipeline.Options, m measure.Measurer) *viewModel {
	vm := &viewModel{
		table:   t,
		opts:    opts,
		autoFit: opts.AutoFit,
		keys:    defaultViewKeys,
	}
	vm.engine = layout.NewEngine(opts.LayoutOptions(m)...)
	vm.engine.SetTable(t)
	vm.textOpts = append(opts.TextOptions(), sink.WithTextMissing(vm.recordMissing))
	return vm
}

func (m *viewModel) recordMissing(token string) {
	if !slices.Contains(m.missing, token) {
		m.missing = append(m.missing, token)
	}
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.row > 0 {
				m.row--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.row < m.table.RowCount()-1 {
				m.row++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Left):
			if m.col > 0 {
				m.col--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Right):
			if m.col < m.engine.Layout().ColumnCount()-1 {
				m.col++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.AutoFit):
			m.autoFit = !m.autoFit
			m.engine.SetAutoFit(m.autoFit)
			m.refresh()
			return m, nil
		}
	}
	return m, nil
}

// resize reports the terminal size to the engine and redraws.
func (m *viewModel) resize(width, height int) {
	m.width = width
	vh := max(height-statusHeight, 1)
	if !m.ready {
		m.viewport = viewport.New(width, vh)
		m.ready = true
	} else {
		m.viewport.Width, m.viewport.Height = width, vh
	}
	m.engine.Resize(float64(width) * m.opts.CellWidth)
	m.refresh()
}

func (m *viewModel) refresh() {
	opts := append(slices.Clone(m.textOpts),
		sink.WithTextOffset(m.col, m.row),
		sink.WithTextSize(m.width, m.viewport.Height),
	)
	m.viewport.SetContent(sink.RenderText(m.table, m.engine.Layout(), opts...))
}

func (m *viewModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.status()
}

func (m *viewModel) status() string {
	l := m.engine.Layout()
	fit := "off"
	if m.autoFit {
		fit = "on"
	}
	line := fmt.Sprintf("%s  row %d/%d  col %d/%d  width %.0f  auto-fit %s  passes %d  %s",
		m.title, min(m.row+1, m.table.RowCount()), m.table.RowCount(),
		min(m.col+1, l.ColumnCount()), l.ColumnCount(), l.AvailableWidth, fit, m.engine.Passes(), m.keys.help())
	if len(m.missing) > 0 {
		line += "  " + StyleWarning.Render("no renderer: "+strings.Join(m.missing, ", "))
	}
	return StyleDim.Render(line)
}
