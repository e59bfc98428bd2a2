package rows

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// progressText draws "label ███░░░ 40%".
func progressText(f sink.RowFrame, width int) []string {
	p := percent(f)
	suffix := fmt.Sprintf(" %3.0f%%", p)
	label := value(f, "label", 0)

	labelWidth := min(runewidth.StringWidth(label), width/3)
	label = runewidth.Truncate(label, labelWidth, sink.Ellipsis)
	if labelWidth > 0 {
		label += " "
	}

	bar := width - runewidth.StringWidth(label) - len(suffix)
	if bar <= 0 {
		return []string{label + strings.TrimLeft(suffix, " ")}
	}
	filled := int(math.Round(float64(bar) * p / 100))
	return []string{label +
		barStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", bar-filled)) +
		suffix}
}

// cardText draws the title and subtitle on the left and the status badge
// on the right.
func cardText(f sink.RowFrame, width int) []string {
	title, subtitle, status := value(f, "title", 0), value(f, "subtitle", 1), value(f, "status", 2)

	right := ""
	if status != "" {
		right = "[" + status + "]"
	}
	leftWidth := max(width-runewidth.StringWidth(right)-1, 0)

	left := title
	if subtitle != "" {
		left += " · " + subtitle
	}
	left = runewidth.Truncate(left, leftWidth, sink.Ellipsis)
	titlePart, rest, _ := strings.Cut(left, " · ")
	styled := titleStyle.Render(titlePart)
	if rest != "" {
		styled += subtleStyle.Render(" · " + rest)
	}

	gap := max(width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 0)
	return []string{styled + strings.Repeat(" ", gap) + subtleStyle.Render(right)}
}

// toggleText draws the title and an on/off switch aligned right.
func toggleText(f sink.RowFrame, width int) []string {
	knob := offStyle.Render("○ off")
	if enabled(f) {
		knob = onStyle.Render("● on ")
	}
	const knobWidth = 5
	title := runewidth.Truncate(value(f, "title", 0), max(width-knobWidth-1, 0), sink.Ellipsis)
	gap := max(width-runewidth.StringWidth(title)-knobWidth, 0)
	return []string{title + strings.Repeat(" ", gap) + knob}
}
