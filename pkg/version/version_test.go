// SPDX-License-Identifier: MPL-2.0

package version

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{"simple", "1.2.3", New(1, 2, 3), false},
		{"zeros", "0.0.0", New(0, 0, 0), false},
		{"large", "10.200.3000", New(10, 200, 3000), false},
		{"empty", "", Version{}, true},
		{"two_parts", "1.2", Version{}, true},
		{"four_parts", "1.2.3.4", Version{}, true},
		{"negative", "1.-2.3", Version{}, true},
		{"v_prefix", "v1.2.3", Version{}, true},
		{"prerelease", "1.2.3-alpha", Version{}, true},
		{"empty_component", "1..3", Version{}, true},
		{"plus_sign", "+1.2.3", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("error should wrap ErrInvalidVersion, got: %v", err)
				}
				if !errors.Is(err, qlerr.ErrFormat) {
					t.Errorf("error should wrap qlerr.ErrFormat, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersion_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []Version{New(0, 0, 0), New(1, 2, 3), New(4, 0, 17), New(99, 99, 99)} {
		got, err := Parse(v.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", v.String(), err)
		}
		if got != v {
			t.Errorf("Parse(%v.String()) = %v", v, got)
		}
	}
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"1.3.0", "1.2.9", 1},
		{"1.2.3", "1.2.4", -1},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Compare(MustParse(tt.b)); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVersion_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(New(1, 4, 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1.4.2"` {
		t.Errorf("Marshal = %s, want %q", data, "1.4.2")
	}

	var legacy Version
	if err := json.Unmarshal([]byte(`{"major":2,"minor":1,"patch":0}`), &legacy); err != nil {
		t.Fatalf("legacy Unmarshal failed: %v", err)
	}
	if legacy != New(2, 1, 0) {
		t.Errorf("legacy Unmarshal = %v, want 2.1.0", legacy)
	}

	var bad Version
	if err := json.Unmarshal([]byte(`"1.x.0"`), &bad); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Unmarshal of bad version: got %v, want ErrInvalidVersion", err)
	}
	if err := json.Unmarshal([]byte(`12`), &bad); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Unmarshal of number: got %v, want ErrInvalidVersion", err)
	}
}
