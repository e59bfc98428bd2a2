package measure

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sheetgrid/pkg/table"
)

// Cells measures text in terminal cells. Wide East Asian runes count as two
// cells and combining marks as zero. Multi-line text measures its longest
// line. The font is ignored.
type Cells struct{}

// Measure implements [Measurer].
func (Cells) Measure(text string, _ table.Font) float64 {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		widest = max(widest, runewidth.StringWidth(line))
	}
	return float64(widest)
}
