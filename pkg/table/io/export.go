package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
	"github.com/matzehuels/sheetgrid/pkg/table/layout"
)

// WriteTable encodes t as a long-form document. CSV and TSV are not
// writable because they cannot carry policies or styles.
func WriteTable(w io.Writer, t table.Table, format Format) error {
	doc := FromTable(t)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "cannot write tables as %q", format)
	}
	return nil
}

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l layout.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout encodes l as indented JSON to w.
func WriteLayout(w io.Writer, l layout.Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// UnmarshalLayout decodes a layout produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

// WriteLayoutFile writes l to a JSON file at path.
func WriteLayoutFile(l layout.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(f, l)
}

// ReadLayoutFile reads a layout JSON file written by [WriteLayoutFile].
func ReadLayoutFile(path string) (layout.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return layout.Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
