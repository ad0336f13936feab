// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/qll"
	"github.com/qilletni/toolchain/pkg/qlerr"
	"github.com/qilletni/toolchain/pkg/version"
)

func TestValues_Complete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(DependenciesNotSatisfiedId) {
		t.Fatalf("catalog has %d entries, want %d", len(values), DependenciesNotSatisfiedId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", v.Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(DependenciesNotSatisfiedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Dependencies not satisfied") {
		t.Errorf("rendered output missing heading:\n%s", out)
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(999)) != nil {
		t.Error("Get(999) should be nil")
	}
}

func TestForError(t *testing.T) {
	t.Parallel()

	_, rangeErr := version.ParseRange("^x")
	_, depErr := manifest.ParseDependency("b")

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 0},
		{"range", rangeErr, InvalidDescriptorId},
		{"dependency", depErr, InvalidDescriptorId},
		{"missing_field", &manifest.MissingFieldError{File: "f", Field: "name"}, InvalidDescriptorId},
		{"metadata", &qll.MetadataError{Archive: "a.qll", Reason: "bad"}, InvalidArchiveId},
		{"not_found", &qlerr.NotFoundError{What: "qilletni_info"}, DescriptorNotFoundId},
		{"io", qlerr.IO("read", "x", errors.New("eof")), FileAccessFailedId},
		{"wrapped", fmt.Errorf("load: %w", WrapWithContext(depErr, "build package", "demo")), InvalidDescriptorId},
		{"explicit_kind", NewErrorContext().WithOperation("mkdir").WithKind(qlerr.ErrIO).Wrap(errors.New("denied")).BuildError(), FileAccessFailedId},
		{"kind_overrides_cause", NewErrorContext().WithOperation("find").WithKind(qlerr.ErrNotFound).Wrap(qlerr.IO("stat", "x", errors.New("x"))).BuildError(), DescriptorNotFoundId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ForError(tt.err); got != tt.want {
				t.Errorf("ForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
