// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// ValidationError is a CUE compile, validation or decode failure for one file.
// It unwraps to qlerr.ErrFormat.
type ValidationError struct {
	// FilePath is the file being decoded.
	FilePath string

	// Issues holds one "<json-path>: <message>" line per CUE error.
	Issues []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return e.FilePath + ": invalid"
	case 1:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Issues[0])
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(e.Issues, "\n  "))
	}
}

// Unwrap returns qlerr.ErrFormat.
func (e *ValidationError) Unwrap() error { return qlerr.ErrFormat }

// FormatError converts a CUE error into a *ValidationError whose issues are
// prefixed with JSON-path locations:
//
//	qilletni_info.cue: dependencies[1]: conflicting values 3 and string
//	config.cue: log.level: value "loud" not in list
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := cueerrors.Errors(err)
	if len(cueErrors) == 0 {
		return &ValidationError{FilePath: filePath, Issues: []string{err.Error()}}
	}

	issues := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr != "" {
			issues = append(issues, pathStr+": "+msg)
		} else {
			issues = append(issues, msg)
		}
	}
	return &ValidationError{FilePath: filePath, Issues: issues}
}

// formatPath turns a CUE path such as ["dependencies", "0"] into
// "dependencies[0]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return &ValidationError{
			FilePath: filename,
			Issues:   []string{fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(data), maxSize)},
		}
	}
	return nil
}
