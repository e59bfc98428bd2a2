package measure

import (
	"unicode/utf8"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

// DefaultCharWidth is the average glyph advance as a fraction of the font
// size. It matches the ratio the SVG sink uses when truncating labels.
const DefaultCharWidth = 0.55

// Approx estimates text width as runes × CharWidth × font size.
type Approx struct {
	CharWidth float64 // fraction of the font size per rune; 0 means DefaultCharWidth
}

// Measure implements [Measurer].
func (a Approx) Measure(text string, font table.Font) float64 {
	ratio := a.CharWidth
	if ratio <= 0 {
		ratio = DefaultCharWidth
	}
	return float64(utf8.RuneCountInString(text)) * ratio * font.PointSize()
}
