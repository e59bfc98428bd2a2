package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/table"
)

// Format identifies a table document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// Formats lists every readable document format.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML, FormatCSV, FormatTSV}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unrecognized table file extension %q", filepath.Ext(path))
	}
}

// ReadTable decodes a table document of the given format from r.
// ReadTable does not close r.
func ReadTable(r io.Reader, format Format) (table.Table, error) {
	doc, err := ReadDocument(r, format)
	if err != nil {
		return table.Table{}, err
	}
	t, err := doc.Table()
	if err != nil {
		return table.Table{}, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "policies")
	}
	return t, nil
}

// ReadDocument decodes the raw document without converting it to a table.
func ReadDocument(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatCSV:
		return readDelimited(r, ',')
	case FormatTSV:
		return readDelimited(r, '\t')
	default:
		return Document{}, errors.New(errors.ErrCodeUnsupported, "unsupported table format %q", format)
	}
	return doc, nil
}

// readDelimited reads a CSV-style file whose first record is the header.
// Records may have different lengths.
func readDelimited(r io.Reader, comma rune) (Document, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode delimited")
	}
	if len(records) == 0 {
		return Document{}, nil
	}
	return Document{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile opens path, picks the decoder from its extension, and returns
// the decoded table.
func ReadFile(path string) (table.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return table.Table{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return table.Table{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return table.Table{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadTable(f, format)
}

// ParseTable decodes a table document held in memory.
func ParseTable(data []byte, format Format) (table.Table, error) {
	return ReadTable(bytes.NewReader(data), format)
}
