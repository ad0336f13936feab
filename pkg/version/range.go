// SPDX-License-Identifier: MPL-2.0

package version

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// Exact permits only the identical version.
	Exact Operator = iota
	// Caret permits newer minor and patch versions within the same major.
	Caret
	// Tilde permits newer patch versions within the same major and minor.
	Tilde
)

type (
	// Operator is the comparison mode of a Range.
	Operator int

	// Range is a base Version plus an Operator, e.g. "^1.2.0".
	Range struct {
		Base Version
		Op   Operator
	}
)

// Prefix returns the character that introduces the operator in a range string.
// Exact has no prefix.
func (o Operator) Prefix() string {
	switch o {
	case Caret:
		return "^"
	case Tilde:
		return "~"
	default:
		return ""
	}
}

// String returns the operator name.
func (o Operator) String() string {
	switch o {
	case Exact:
		return "exact"
	case Caret:
		return "caret"
	case Tilde:
		return "tilde"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// ParseRange parses a range string such as "1.2.3", "^1.2.3" or "~1.2.3".
// A missing prefix means Exact.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return Range{}, &InvalidRangeError{Value: s, Reason: "empty"}
	}

	op := Exact
	rest := s
	switch s[0] {
	case '^':
		op, rest = Caret, s[1:]
	case '~':
		op, rest = Tilde, s[1:]
	}

	base, err := Parse(rest)
	if err != nil {
		return Range{}, &InvalidRangeError{Value: s, Reason: err.Error()}
	}
	return Range{Base: base, Op: op}, nil
}

// MustParseRange is like ParseRange but panics on malformed input.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Permits reports whether candidate falls within the range.
//
// Caret compares major first; once candidate.Minor >= base.Minor the
// candidate is accepted, otherwise only candidate.Patch >= base.Patch is
// checked, so ^1.2.3 also permits 1.1.5.
func (r Range) Permits(candidate Version) bool {
	b := r.Base
	switch r.Op {
	case Caret:
		if candidate.Major != b.Major {
			return false
		}
		if candidate.Minor >= b.Minor {
			return true
		}
		return candidate.Patch >= b.Patch
	case Tilde:
		if candidate.Major != b.Major || candidate.Minor != b.Minor {
			return false
		}
		return candidate.Patch >= b.Patch
	default:
		return candidate == b
	}
}

// String returns the range in its parseable form (e.g. "^1.2.3").
func (r Range) String() string {
	return r.Op.Prefix() + r.Base.String()
}

// MarshalText encodes the range in its parseable form.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a range string.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// legacyRange is the object encoding written by older toolchains
// ({"major":1,"minor":0,"patch":0,"rangeSpecifier":"CARET"}).
type legacyRange struct {
	Major          uint   `json:"major"`
	Minor          uint   `json:"minor"`
	Patch          uint   `json:"patch"`
	RangeSpecifier string `json:"rangeSpecifier"`
}

// UnmarshalJSON accepts both the string form and the legacy object form.
func (r *Range) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var lr legacyRange
		if err := json.Unmarshal(data, &lr); err != nil {
			return &InvalidRangeError{Value: string(data), Reason: err.Error()}
		}
		var op Operator
		switch strings.ToUpper(lr.RangeSpecifier) {
		case "CARET":
			op = Caret
		case "TILDE":
			op = Tilde
		case "EXACT", "":
			op = Exact
		default:
			return &InvalidRangeError{Value: string(data), Reason: fmt.Sprintf("unknown range specifier %q", lr.RangeSpecifier)}
		}
		*r = Range{Base: New(lr.Major, lr.Minor, lr.Patch), Op: op}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &InvalidRangeError{Value: string(data), Reason: "expected a string"}
	}
	return r.UnmarshalText([]byte(s))
}
