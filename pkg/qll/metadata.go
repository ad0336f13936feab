// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"encoding/json"

	packageurl "github.com/package-url/packageurl-go"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/version"
)

// PURLType is the package-url type used for Qilletni packages.
const PURLType = "qilletni"

// Metadata is the package description stored in an archive's qll.info entry.
type Metadata struct {
	Name         string                `json:"name"`
	Version      version.Version       `json:"version"`
	Author       string                `json:"author"`
	License      string                `json:"license,omitempty"`
	Description  string                `json:"description,omitempty"`
	Dependencies []manifest.Dependency `json:"dependencies"`

	// NativeLibraryClass and NativeProviderClass are the entry points the
	// package's native artifact declares. Empty when the package has none.
	NativeLibraryClass  string `json:"nativeLibraryClass,omitempty"`
	NativeProviderClass string `json:"nativeProviderClass,omitempty"`
}

// FromManifest derives archive metadata from a parsed descriptor.
func FromManifest(m *manifest.Manifest) *Metadata {
	deps := make([]manifest.Dependency, len(m.Dependencies))
	copy(deps, m.Dependencies)
	return &Metadata{
		Name:                m.Name,
		Version:             m.Version,
		Author:              m.Author,
		License:             m.License,
		Description:         m.Description,
		Dependencies:        deps,
		NativeLibraryClass:  m.NativeLibrary,
		NativeProviderClass: m.NativeProvider,
	}
}

// HasNativeEntrypoints reports whether any native entry point is declared.
func (m *Metadata) HasNativeEntrypoints() bool {
	return m.NativeLibraryClass != "" || m.NativeProviderClass != ""
}

// PURL returns the package URL identifying this package version,
// e.g. "pkg:qilletni/std@1.0.0".
func (m *Metadata) PURL() string {
	p := packageurl.NewPackageURL(PURLType, "", m.Name, m.Version.String(), nil, "")
	return p.ToString()
}

// FileName returns the canonical archive file name, "<name>-<version>.qll".
func (m *Metadata) FileName() string {
	return m.Name + "-" + m.Version.String() + Extension
}

type metadataAlias Metadata

// UnmarshalJSON decodes metadata, also accepting the libraryClass and
// providerClass keys written by older toolchains.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var aux struct {
		metadataAlias
		LibraryClass  string `json:"libraryClass"`
		ProviderClass string `json:"providerClass"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Metadata(aux.metadataAlias)
	if m.NativeLibraryClass == "" {
		m.NativeLibraryClass = aux.LibraryClass
	}
	if m.NativeProviderClass == "" {
		m.NativeProviderClass = aux.ProviderClass
	}
	return nil
}
