package sink

import (
	"encoding/json"

	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
)

type jsonOutput struct {
	Width          float64         `json:"width"`
	Height         float64         `json:"height"`
	AvailableWidth float64         `json:"available_width"`
	AutoFit        bool            `json:"auto_fit,omitempty"`
	Viewport       layout.Viewport `json:"viewport"`
	Columns        []jsonColumn    `json:"columns"`
	Rows           []jsonRow       `json:"rows"`
}

type jsonColumn struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Width    float64 `json:"width"`
	Flexible bool    `json:"flexible,omitempty"`
}

type jsonRow struct {
	Index    int               `json:"index"`
	Y        float64           `json:"y"`
	Height   float64           `json:"height"`
	Header   bool              `json:"header,omitempty"`
	Renderer string            `json:"renderer,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
	Cells    []jsonCell        `json:"cells"`
}

type jsonCell struct {
	Column int     `json:"column"`
	Text   string  `json:"text"`
	Policy string  `json:"policy"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports the layout together with the table content as a
// pretty-printed JSON document: one entry per column with its offset and
// width, and one entry per row with the rectangle of every cell.
//
// Custom rows keep their renderer token and values so that a client can
// draw them itself. RenderJSON does not modify t or l. It returns an error
// only if marshaling fails.
func RenderJSON(t table.Table, l layout.Layout) ([]byte, error) {
	out := jsonOutput{
		Width:          l.ContentWidth,
		Height:         l.ContentHeight,
		AvailableWidth: l.AvailableWidth,
		AutoFit:        l.AutoFit,
		Viewport:       l.Viewport,
		Columns:        make([]jsonColumn, len(l.Widths)),
		Rows:           make([]jsonRow, 0, len(t.Rows)),
	}

	for c, w := range l.Widths {
		out.Columns[c] = jsonColumn{Index: c, X: l.ColumnX(c), Width: w}
		if c < len(l.Flexible) {
			out.Columns[c].Flexible = l.Flexible[c]
		}
	}

	n := min(len(t.Rows), l.RowCount())
	for i := range n {
		row := t.Rows[i]
		rect := l.RowRect(i)
		jr := jsonRow{
			Index:    i,
			Y:        rect.Y,
			Height:   rect.H,
			Header:   row.Header,
			Renderer: row.Renderer,
			Values:   row.Values,
			Cells:    make([]jsonCell, 0, len(row.Cells)),
		}
		for c, cell := range row.Cells {
			if c >= len(l.Widths) {
				break
			}
			cr := l.CellRect(i, c)
			jr.Cells = append(jr.Cells, jsonCell{
				Column: c,
				Text:   cell.Text,
				Policy: cell.Width.String(),
				X:      cr.X,
				Y:      cr.Y,
				Width:  cr.W,
				Height: cr.H,
			})
		}
		out.Rows = append(out.Rows, jr)
	}

	return json.MarshalIndent(out, "", "  ")
}
