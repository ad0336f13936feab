// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

const (
	// Extension is the package archive file extension.
	Extension = ".qll"
	// MetadataEntry is the archive entry holding the JSON metadata.
	MetadataEntry = "qll.info"
	// SourceRoot is the directory prefix of source entries, both inside the
	// archive and inside a project tree.
	SourceRoot = "qilletni-src"
	// SourceExtension is the extension of Qilletni source files.
	SourceExtension = ".ql"
	// NativeEntry is the archive entry holding the optional native artifact.
	NativeEntry = "native.jar"
)

// WriteMetadata writes meta as JSON to buildDir/qll.info so that it is
// archived as an ordinary entry.
func WriteMetadata(meta *Metadata, buildDir string) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", MetadataEntry, err)
	}
	path := filepath.Join(buildDir, MetadataEntry)
	return qlerr.IO("write", path, os.WriteFile(path, data, 0o644))
}

// WriteArchive zips every regular file under buildDir into dest, naming each
// entry by its slash-separated path relative to buildDir. On failure the
// partially written dest is removed.
func WriteArchive(buildDir, dest string) (err error) {
	absBuild, err := filepath.Abs(buildDir)
	if err != nil {
		return qlerr.IO("resolve", buildDir, err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return qlerr.IO("resolve", dest, err)
	}

	out, err := os.Create(absDest)
	if err != nil {
		return qlerr.IO("create", absDest, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(absDest)
		}
	}()
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close", absDest, closeErr)
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("finalize", absDest, closeErr)
		}
	}()

	return filepath.WalkDir(absBuild, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return qlerr.IO("walk", path, walkErr)
		}
		if d.IsDir() || path == absDest {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(absBuild, path)
		if relErr != nil {
			return qlerr.IO("resolve", path, relErr)
		}
		return addFile(zw, path, filepath.ToSlash(rel), d)
	})
}

func addFile(zw *zip.Writer, path, name string, d os.DirEntry) (err error) {
	info, err := d.Info()
	if err != nil {
		return qlerr.IO("stat", path, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return qlerr.IO("header", path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return qlerr.IO("add entry", name, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return qlerr.IO("open", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close", path, closeErr)
		}
	}()

	if _, err := io.Copy(w, f); err != nil {
		return qlerr.IO("write entry", name, err)
	}
	return nil
}
