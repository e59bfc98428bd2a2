// Package rows provides the built-in custom row renderers.
//
// Each renderer reads its content from the row's Values, falling back to
// the texts of the row's cells:
//
//   - progress: "label" (cell 0) and "progress" (0-100) as a bar
//   - card: "title" (cell 0), "subtitle" (cell 1), and a "status" badge (cell 2)
//   - toggle: "title" (cell 0) and an on/off switch from "on"
//
// Install them with [Register].
package rows

import (
	"strconv"
	"strings"

	"github.com/matzehuels/sheetgrid/pkg/table/sink"
)

// Renderer tokens.
const (
	Progress = "progress"
	Card     = "card"
	Toggle   = "toggle"
)

// Tokens lists the built-in renderer tokens.
var Tokens = []string{Card, Progress, Toggle}

// Register installs the built-in renderers into text and svg. Either
// registry may be nil.
func Register(text *sink.Registry[sink.TextRowFunc], svg *sink.Registry[sink.SVGRowFunc]) {
	if text != nil {
		text.Register(Progress, progressText)
		text.Register(Card, cardText)
		text.Register(Toggle, toggleText)
	}
	if svg != nil {
		svg.Register(Progress, progressSVG)
		svg.Register(Card, cardSVG)
		svg.Register(Toggle, toggleSVG)
	}
}

// value returns Values[key], or the text of cell i when the key is unset.
func value(f sink.RowFrame, key string, i int) string {
	if v, ok := f.Row.Values[key]; ok {
		return v
	}
	if i >= 0 && i < len(f.Row.Cells) {
		return f.Row.Cells[i].Text
	}
	return ""
}

// percent parses the progress value, clamped to [0, 100]. Unparseable
// values count as 0.
func percent(f sink.RowFrame) float64 {
	s := strings.TrimSuffix(strings.TrimSpace(value(f, "progress", 1)), "%")
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return min(max(p, 0), 100)
}

// enabled parses the toggle state.
func enabled(f sink.RowFrame) bool {
	switch strings.ToLower(strings.TrimSpace(value(f, "on", 1))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
