// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"strings"

	"github.com/qilletni/toolchain/pkg/version"
)

type (
	// Manifest is a parsed package descriptor.
	Manifest struct {
		Name    string
		Version version.Version
		Author  string

		// License is an SPDX license expression, empty when not declared.
		License     string
		Description string

		// NativeLibrary and NativeProvider name the entry points of the
		// package's native artifact, if it ships one.
		NativeLibrary  string
		NativeProvider string

		// Dependencies is never nil after parsing.
		Dependencies []Dependency
	}

	// Dependency is one declared requirement on another package.
	Dependency struct {
		Name  string        `json:"name"`
		Range version.Range `json:"version"`
	}
)

// ParseDependency parses a "<name>:<range>" dependency string.
func ParseDependency(raw string) (Dependency, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return Dependency{}, &DependencyFormatError{Raw: raw, Reason: "expected <name>:<range>"}
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Dependency{}, &DependencyFormatError{Raw: raw, Reason: "empty package name"}
	}
	rng, err := version.ParseRange(strings.TrimSpace(parts[1]))
	if err != nil {
		return Dependency{}, &DependencyFormatError{Raw: raw, Reason: err.Error(), Err: err}
	}
	return Dependency{Name: name, Range: rng}, nil
}

// String returns the dependency in descriptor form.
func (d Dependency) String() string {
	return d.Name + ":" + d.Range.String()
}
