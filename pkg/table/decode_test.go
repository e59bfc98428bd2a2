package table

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func TestCellDecodeDefaults(t *testing.T) {
	type doc struct {
		Cells []Cell `json:"cells" toml:"cells" yaml:"cells"`
	}
	tests := []struct {
		name   string
		decode func(*doc) error
	}{
		{"json", func(d *doc) error { return json.Unmarshal([]byte(`{"cells": [{"text": "Alice"}]}`), d) }},
		{"yaml", func(d *doc) error { return yaml.Unmarshal([]byte("cells:\n  - {text: Alice}\n"), d) }},
		{"toml", func(d *doc) error {
			_, err := toml.Decode("[[cells]]\ntext = \"Alice\"\n", d)
			return err
		}},
	}
	want := NewCell("Alice")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d doc
			if err := tt.decode(&d); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(d.Cells) != 1 {
				t.Fatalf("cells = %d, want 1", len(d.Cells))
			}
			if d.Cells[0] != want {
				t.Errorf("cell = %+v, want %+v", d.Cells[0], want)
			}
		})
	}
}

func TestCellDecodeKeepsExplicitValues(t *testing.T) {
	tests := []struct {
		name   string
		decode func(*Cell) error
	}{
		{"json", func(c *Cell) error {
			return json.Unmarshal([]byte(`{"text": "x", "width": "fixed:40", "insets": {"top": 0, "left": 0, "bottom": 0, "right": 0}, "style": {"border_width": 0}}`), c)
		}},
		{"yaml", func(c *Cell) error {
			return yaml.Unmarshal([]byte("text: x\nwidth: fixed:40\ninsets: {top: 0, left: 0, bottom: 0, right: 0}\nstyle: {border_width: 0}\n"), c)
		}},
		{"toml", func(c *Cell) error {
			var d struct {
				Cell Cell `toml:"cell"`
			}
			_, err := toml.Decode("[cell]\ntext = \"x\"\nwidth = 40\n[cell.insets]\ntop = 0\nleft = 0\nbottom = 0\nright = 0\n[cell.style]\nborder_width = 0\n", &d)
			*c = d.Cell
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cell
			if err := tt.decode(&c); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if w, ok := c.Width.IsFixed(); !ok || w != 40 {
				t.Errorf("Width = %v, want fixed:40", c.Width)
			}
			if c.Insets != (Insets{}) || c.Style.BorderWidth != 0 {
				t.Errorf("explicit zeros lost: insets %+v, border %v", c.Insets, c.Style.BorderWidth)
			}
			if c.Font.Size != DefaultFontSize || c.Style.Align != AlignCenter {
				t.Errorf("omitted fields = %+v, want defaults", c)
			}
		})
	}
}
