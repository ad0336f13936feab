// SPDX-License-Identifier: MPL-2.0

package version

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Version is an immutable major.minor.patch triple.
// Two versions are equal when all three components are equal, so Version
// values can be compared with == and used as map keys.
type Version struct {
	Major uint
	Minor uint
	Patch uint
}

// New returns the version major.minor.patch.
func New(major, minor, patch uint) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses a string of exactly three dot-separated non-negative integers.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &InvalidVersionError{Value: s, Reason: "expected major.minor.patch"}
	}

	var nums [3]uint
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return Version{}, &InvalidVersionError{Value: s, Reason: fmt.Sprintf("component %q is not a non-negative integer", p)}
		}
		nums[i] = uint(n)
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpUint(v.Minor, other.Minor)
	default:
		return cmpUint(v.Patch, other.Patch)
	}
}

func cmpUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalText encodes the version as "major.minor.patch".
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a "major.minor.patch" string.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// legacyVersion is the object encoding written by older toolchains
// ({"major":1,"minor":0,"patch":0}).
type legacyVersion struct {
	Major uint `json:"major"`
	Minor uint `json:"minor"`
	Patch uint `json:"patch"`
}

// UnmarshalJSON accepts both the string form and the legacy object form.
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var lv legacyVersion
		if err := json.Unmarshal(data, &lv); err != nil {
			return &InvalidVersionError{Value: string(data), Reason: err.Error()}
		}
		*v = Version(lv)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &InvalidVersionError{Value: string(data), Reason: "expected a string"}
	}
	return v.UnmarshalText([]byte(s))
}
