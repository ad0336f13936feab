// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
// ErrInvalidRange is the sentinel error wrapped by InvalidRangeError.
var (
	ErrInvalidVersion = errors.New("invalid version")
	ErrInvalidRange   = errors.New("invalid version range")
)

type (
	// InvalidVersionError is returned when a string is not a major.minor.patch version.
	InvalidVersionError struct {
		Value  string
		Reason string
	}

	// InvalidRangeError is returned when a string is not a valid version range.
	InvalidRangeError struct {
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVersion and qlerr.ErrFormat.
func (e *InvalidVersionError) Unwrap() []error {
	return []error{ErrInvalidVersion, qlerr.ErrFormat}
}

// Error implements the error interface.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid version range %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRange and qlerr.ErrFormat.
func (e *InvalidRangeError) Unwrap() []error {
	return []error{ErrInvalidRange, qlerr.ErrFormat}
}
