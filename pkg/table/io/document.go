package io

import (
	"github.com/matzehuels/sheetgrid/pkg/table"
)

// Document is the on-disk shape of a table.
type Document struct {
	Header       []string    `json:"header,omitempty" toml:"header" yaml:"header,omitempty"`
	Rows         [][]string  `json:"rows,omitempty" toml:"rows" yaml:"rows,omitempty"`
	Policies     []string    `json:"policies,omitempty" toml:"policies" yaml:"policies,omitempty"`
	HeaderHeight float64     `json:"header_height,omitempty" toml:"header_height" yaml:"header_height,omitempty"`
	RowHeight    float64     `json:"row_height,omitempty" toml:"row_height" yaml:"row_height,omitempty"`
	Cells        []table.Row `json:"cells,omitempty" toml:"cells" yaml:"cells,omitempty"`
}

// Table converts the document into a table. Explicit rows take precedence
// over the header/rows form. Rows without a height get the default for
// their kind; cells already carry the [table.NewCell] defaults from
// decoding.
func (d Document) Table() (table.Table, error) {
	if len(d.Cells) > 0 {
		rows := make([]table.Row, len(d.Cells))
		for i, r := range d.Cells {
			if r.Height == 0 {
				r.Height = d.defaultHeight(r.Header)
			}
			rows[i] = r
		}
		return table.Table{Rows: rows}, nil
	}

	policies, err := table.ParsePolicies(d.Policies)
	if err != nil {
		return table.Table{}, err
	}
	return table.FromStrings(d.Header, d.Rows,
		table.WithPolicies(policies),
		table.WithHeaderHeight(d.defaultHeight(true)),
		table.WithRowHeight(d.defaultHeight(false)),
	), nil
}

func (d Document) defaultHeight(header bool) float64 {
	switch {
	case header && d.HeaderHeight > 0:
		return d.HeaderHeight
	case header:
		return table.DefaultHeaderHeight
	case d.RowHeight > 0:
		return d.RowHeight
	default:
		return table.DefaultRowHeight
	}
}

// FromTable returns the long-form document for t.
func FromTable(t table.Table) Document {
	return Document{Cells: t.Rows}
}
