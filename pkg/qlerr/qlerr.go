// SPDX-License-Identifier: MPL-2.0

// Package qlerr defines the error kinds shared by the package toolchain.
//
// Every typed error returned by the toolchain packages unwraps to exactly one
// of the kind sentinels below, so callers at the CLI boundary can classify a
// failure with errors.Is without knowing the concrete type:
//   - [ErrFormat]: malformed version, range, dependency string or descriptor
//   - [ErrNotFound]: missing descriptor, metadata entry or expected archive entry
//   - [ErrIO]: underlying filesystem or archive failure
//
// Unmet dependencies are deliberately not an error kind; they are reported by
// the dependency validator as a normal outcome.
package qlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat classifies malformed input.
	ErrFormat = errors.New("format error")
	// ErrNotFound classifies a required file or entry that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIO classifies filesystem and archive I/O failures.
	ErrIO = errors.New("i/o error")
)

type (
	// IOError wraps an underlying I/O failure with the operation and path involved.
	// It unwraps to both ErrIO and the original error.
	IOError struct {
		Op   string
		Path string
		Err  error
	}

	// NotFoundError reports a missing file or archive entry.
	NotFoundError struct {
		// What names the missing thing (e.g., "metadata entry", "qilletni_info file").
		What string
		// Where is the directory or archive that was searched.
		Where string
	}
)

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Where == "" {
		return e.What + " not found"
	}
	return fmt.Sprintf("%s not found in %s", e.What, e.Where)
}

// Unwrap returns ErrNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IO wraps err as an IOError. A nil err yields nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// Kind returns the kind sentinel err belongs to, or nil when err is not
// classified by this package.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFormat):
		return ErrFormat
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrIO):
		return ErrIO
	default:
		return nil
	}
}
