// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"errors"
	"fmt"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// ErrInvalidMetadata is the sentinel wrapped by MetadataError.
var ErrInvalidMetadata = errors.New("invalid package metadata")

// MetadataError is returned when an archive's qll.info entry cannot be decoded
// or lacks required fields.
type MetadataError struct {
	Archive string
	Reason  string
	Err     error
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Archive, MetadataEntry, e.Reason)
}

// Unwrap returns ErrInvalidMetadata, qlerr.ErrFormat and the decoder error.
func (e *MetadataError) Unwrap() []error {
	errs := []error{ErrInvalidMetadata, qlerr.ErrFormat}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
