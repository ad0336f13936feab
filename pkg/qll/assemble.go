// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/qlerr"
)

// BuildDir is the staging directory, relative to a project root, in which an
// archive's contents are assembled.
var BuildDir = filepath.Join("build", "ql-build")

type (
	// BuildOptions configures Assemble.
	BuildOptions struct {
		// ProjectRoot is the directory containing qilletni-src.
		ProjectRoot string
		// Output is either the archive file (ending in .qll) or the directory
		// receiving <name>-<version>.qll. Empty means DefaultDir.
		Output string
		// DefaultDir is used when Output is empty.
		DefaultDir string
		// NativeArtifact is a prebuilt native artifact to embed, if any.
		NativeArtifact string
		// NativeLibraryClass and NativeProviderClass override the entry points
		// declared in the descriptor when non-empty.
		NativeLibraryClass  string
		NativeProviderClass string
	}

	// BuildResult describes an assembled archive.
	BuildResult struct {
		Metadata *Metadata
		Archive  string
		BuildDir string
		Sources  int
	}
)

// Assemble builds a .qll archive from the project at opts.ProjectRoot.
//
// The staging directory build/ql-build is recreated, every .ql file under
// qilletni-src is copied into it, the native artifact (if any) is added as
// native.jar, and qll.info is written before archiving.
func Assemble(opts BuildOptions) (*BuildResult, error) {
	srcDir := filepath.Join(opts.ProjectRoot, SourceRoot)
	m, err := manifest.Parse(srcDir)
	if err != nil {
		return nil, err
	}

	meta := FromManifest(m)
	if opts.NativeLibraryClass != "" {
		meta.NativeLibraryClass = opts.NativeLibraryClass
	}
	if opts.NativeProviderClass != "" {
		meta.NativeProviderClass = opts.NativeProviderClass
	}

	buildDir := filepath.Join(opts.ProjectRoot, BuildDir)
	if err := os.RemoveAll(buildDir); err != nil {
		return nil, qlerr.IO("clear", buildDir, err)
	}

	sources, err := copySources(srcDir, filepath.Join(buildDir, SourceRoot))
	if err != nil {
		return nil, err
	}

	if opts.NativeArtifact != "" {
		if err := CopyFile(opts.NativeArtifact, filepath.Join(buildDir, NativeEntry)); err != nil {
			return nil, err
		}
	}

	if err := WriteMetadata(meta, buildDir); err != nil {
		return nil, err
	}

	dest := archivePath(opts, meta)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, qlerr.IO("mkdir", filepath.Dir(dest), err)
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return nil, qlerr.IO("replace", dest, err)
	}
	if err := WriteArchive(buildDir, dest); err != nil {
		return nil, err
	}

	return &BuildResult{Metadata: meta, Archive: dest, BuildDir: buildDir, Sources: sources}, nil
}

func archivePath(opts BuildOptions, meta *Metadata) string {
	out := opts.Output
	if out == "" {
		out = opts.DefaultDir
	}
	if out == "" {
		out = filepath.Join(opts.ProjectRoot, "build")
	}
	if strings.HasSuffix(out, Extension) {
		return out
	}
	return filepath.Join(out, meta.FileName())
}

func copySources(srcDir, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, qlerr.IO("mkdir", destDir, err)
	}

	count := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return qlerr.IO("walk", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SourceExtension) {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return qlerr.IO("resolve", path, err)
		}
		count++
		return CopyFile(path, filepath.Join(destDir, rel))
	})
	return count, err
}
