// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// ErrInvalidManifest is the sentinel wrapped by every descriptor format error.
var ErrInvalidManifest = errors.New("invalid package descriptor")

type (
	// MissingFieldError is returned when a required key is absent or empty.
	MissingFieldError struct {
		File  string
		Field string
	}

	// InvalidFieldError is returned when an optional or required key holds a
	// value that cannot be accepted.
	InvalidFieldError struct {
		File   string
		Field  string
		Value  string
		Reason string
	}

	// DependencyFormatError is returned for a dependency entry that is not of
	// the form "<name>:<range>" or whose range does not parse.
	DependencyFormatError struct {
		Raw    string
		Reason string
		Err    error
	}

	// SyntaxError wraps a document that could not be decoded at all.
	SyntaxError struct {
		File string
		Err  error
	}
)

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.File, e.Field)
}

// Unwrap returns ErrInvalidManifest and qlerr.ErrFormat.
func (e *MissingFieldError) Unwrap() []error {
	return []error{ErrInvalidManifest, qlerr.ErrFormat}
}

// Error implements the error interface.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: invalid %s %q: %s", e.File, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidManifest and qlerr.ErrFormat.
func (e *InvalidFieldError) Unwrap() []error {
	return []error{ErrInvalidManifest, qlerr.ErrFormat}
}

// Error implements the error interface.
func (e *DependencyFormatError) Error() string {
	return fmt.Sprintf("invalid dependency %q: %s", e.Raw, e.Reason)
}

// Unwrap returns ErrInvalidManifest, qlerr.ErrFormat and the range parse
// error, if any.
func (e *DependencyFormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidManifest, qlerr.ErrFormat, e.Err}
	}
	return []error{ErrInvalidManifest, qlerr.ErrFormat}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns ErrInvalidManifest, qlerr.ErrFormat and the decoder error.
func (e *SyntaxError) Unwrap() []error {
	return []error{ErrInvalidManifest, qlerr.ErrFormat, e.Err}
}
