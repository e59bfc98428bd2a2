package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/sheetgrid/pkg/errors"
)

// PolicyKind discriminates the [WidthPolicy] variants.
type PolicyKind uint8

const (
	// KindAuto sizes the column to the measured content of its cells.
	KindAuto PolicyKind = iota
	// KindFixed uses the declared width.
	KindFixed
	// KindFlexible shares the viewport width left over by the other columns.
	KindFlexible
)

// String returns the policy kind name used in table documents.
func (k PolicyKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindFlexible:
		return "flexible"
	default:
		return "auto"
	}
}

// WidthPolicy describes how a cell contributes to its column width.
// The zero value is [Auto].
type WidthPolicy struct {
	Kind  PolicyKind
	Value float64 // width for KindFixed, ignored otherwise
}

// Fixed returns a policy with an explicit width.
func Fixed(w float64) WidthPolicy { return WidthPolicy{Kind: KindFixed, Value: w} }

// Auto returns a policy that measures the cell's text.
func Auto() WidthPolicy { return WidthPolicy{Kind: KindAuto} }

// Flexible returns a policy that takes a share of the remaining width.
func Flexible() WidthPolicy { return WidthPolicy{Kind: KindFlexible} }

// IsFixed reports whether p is a fixed width and returns that width.
func (p WidthPolicy) IsFixed() (float64, bool) { return p.Value, p.Kind == KindFixed }

// IsFlexible reports whether p is the flexible policy.
func (p WidthPolicy) IsFlexible() bool { return p.Kind == KindFlexible }

// String renders the policy as "auto", "flexible", or "fixed:<w>".
func (p WidthPolicy) String() string {
	if p.Kind == KindFixed {
		return "fixed:" + strconv.FormatFloat(p.Value, 'f', -1, 64)
	}
	return p.Kind.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p WidthPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty string
// decodes to [Auto]; a bare number decodes to [Fixed].
func (p *WidthPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalJSON accepts either the text form or a bare JSON number.
func (p *WidthPolicy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return p.UnmarshalText([]byte(s))
	}
	if string(data) == "null" {
		*p = Auto()
		return nil
	}
	return p.UnmarshalText(data)
}

// ParsePolicy parses the text form of a width policy.
func ParsePolicy(s string) (WidthPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "auto":
		return Auto(), nil
	case "flexible", "flex":
		return Flexible(), nil
	}
	num := strings.TrimPrefix(s, "fixed:")
	w, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return WidthPolicy{}, errors.New(errors.ErrCodeInvalidPolicy,
			"invalid width policy %q (want auto, flexible, fixed:<w>, or a number)", s)
	}
	return Fixed(w), nil
}

// ParsePolicies parses a list of policy strings, stopping at the first error.
func ParsePolicies(ss []string) ([]WidthPolicy, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]WidthPolicy, len(ss))
	for i, s := range ss {
		p, err := ParsePolicy(s)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
