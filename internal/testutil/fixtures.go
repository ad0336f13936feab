// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/qll"
	"github.com/qilletni/toolchain/pkg/version"
)

// Archive describes a .qll fixture.
type Archive struct {
	Name    string
	Version string
	// Dependencies use the descriptor form, e.g. "std:^1.0.0".
	Dependencies []string
	// Sources maps paths relative to the source root to file contents.
	Sources map[string]string
	// Classes, when non-empty, become a native.jar holding one empty
	// .class entry per fully qualified class name.
	Classes []string

	NativeLibraryClass  string
	NativeProviderClass string
}

// Metadata builds the archive metadata, failing the test on a bad version
// or dependency string.
func (a Archive) Metadata(t testing.TB) *qll.Metadata {
	t.Helper()

	v, err := version.Parse(a.Version)
	if err != nil {
		t.Fatal(err)
	}
	meta := &qll.Metadata{
		Name:                a.Name,
		Version:             v,
		Author:              "fixture",
		Dependencies:        []manifest.Dependency{},
		NativeLibraryClass:  a.NativeLibraryClass,
		NativeProviderClass: a.NativeProviderClass,
	}
	for _, raw := range a.Dependencies {
		dep, err := manifest.ParseDependency(raw)
		if err != nil {
			t.Fatal(err)
		}
		meta.Dependencies = append(meta.Dependencies, dep)
	}
	return meta
}

// WriteArchive writes a into dir as <name>-<version>.qll and returns its path.
func WriteArchive(t testing.TB, dir string, a Archive) string {
	t.Helper()

	meta := a.Metadata(t)
	info, err := json.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}

	entries := map[string][]byte{qll.MetadataEntry: info}
	for rel, text := range a.Sources {
		entries[qll.SourceRoot+"/"+rel] = []byte(text)
	}
	if len(a.Classes) > 0 {
		entries[qll.NativeEntry] = JarBytes(t, a.Classes...)
	}

	MustMkdirAll(t, dir)
	path := filepath.Join(dir, meta.FileName())
	writeZip(t, path, entries)
	return path
}

// WriteJar writes a jar holding the given classes to path.
func WriteJar(t testing.TB, path string, classes ...string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, JarBytes(t, classes...), 0o644); err != nil {
		t.Fatal(err)
	}
}

// JarBytes returns a jar holding a manifest and one entry per class name.
func JarBytes(t testing.TB, classes ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name string) {
		if _, err := zw.Create(name); err != nil {
			t.Fatal(err)
		}
	}
	add("META-INF/MANIFEST.MF")
	for _, class := range classes {
		add(strings.ReplaceAll(class, ".", "/") + ".class")
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeZip(t testing.TB, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	MustClose(t, f)
}
