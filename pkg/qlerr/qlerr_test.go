// SPDX-License-Identifier: MPL-2.0

package qlerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestIO(t *testing.T) {
	t.Parallel()

	if IO("read", "x", nil) != nil {
		t.Fatal("IO(nil) should be nil")
	}

	err := IO("read", "/tmp/a.qll", fs.ErrPermission)
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if got, want := err.Error(), "read /tmp/a.qll: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"format", fmt.Errorf("wrapped: %w", ErrFormat), ErrFormat},
		{"not_found", &NotFoundError{What: "qll.info", Where: "a.qll"}, ErrNotFound},
		{"io", IO("open", "a.qll", errors.New("boom")), ErrIO},
		{"unclassified", errors.New("other"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	t.Parallel()

	err := &NotFoundError{What: "metadata entry qll.info", Where: "demo.qll"}
	if got, want := err.Error(), "metadata entry qll.info not found in demo.qll"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	bare := &NotFoundError{What: "qilletni_info file"}
	if got, want := bare.Error(), "qilletni_info file not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
