package table

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Decoded cells start from the [NewCell] defaults, so a document that
// leaves out insets, font size, alignment, or border width lays out the
// same as a cell built in code.

// cellFields is Cell without its decoding methods.
type cellFields Cell

func defaultFields() cellFields { return cellFields(NewCell("")) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	f := defaultFields()
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Cell(f)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Cell) UnmarshalYAML(node *yaml.Node) error {
	f := defaultFields()
	if err := node.Decode(&f); err != nil {
		return err
	}
	*c = Cell(f)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler. The decoded table shares its
// keys with the JSON form, so it is decoded through that.
func (c *Cell) UnmarshalTOML(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.UnmarshalJSON(data)
}
