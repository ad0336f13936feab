// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

type (
	// ArchiveSource resolves sources read eagerly from an archive.
	// It is immutable after Open returns.
	ArchiveSource struct {
		files map[string]string
	}

	// ArchiveInfo summarizes an archive without registering it anywhere.
	ArchiveInfo struct {
		Path      string
		Metadata  *Metadata
		Sources   []string
		HasNative bool
	}
)

// Resolve returns the text of the source at relPath, a slash-separated path
// relative to the package source root such as "util/helpers.ql".
func (s *ArchiveSource) Resolve(relPath string) (string, bool) {
	text, ok := s.files[relPath]
	return text, ok
}

// Paths returns the resolvable source paths in lexical order.
func (s *ArchiveSource) Paths() []string {
	return slices.Sorted(maps.Keys(s.files))
}

// Open reads the metadata and every source file of the archive at path.
func Open(path string) (*Metadata, *ArchiveSource, error) {
	info, src, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	return info.Metadata, src, nil
}

// Inspect reads the archive at path and reports its contents.
func Inspect(path string) (*ArchiveInfo, error) {
	info, _, err := open(path)
	return info, err
}

func open(path string) (info *ArchiveInfo, src *ArchiveSource, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, qlerr.IO("open archive", path, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close archive", path, closeErr)
		}
	}()

	meta, err := readMetadata(&zr.Reader, path)
	if err != nil {
		return nil, nil, err
	}

	info = &ArchiveInfo{Path: path, Metadata: meta}
	src = &ArchiveSource{files: make(map[string]string)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ReplaceAll(f.Name, `\`, "/")
		if name == NativeEntry {
			info.HasNative = true
			continue
		}
		rel, ok := sourcePath(name)
		if !ok {
			continue
		}
		text, readErr := readEntry(f)
		if readErr != nil {
			return nil, nil, qlerr.IO("read entry", path+"!"+f.Name, readErr)
		}
		src.files[rel] = text
	}
	info.Sources = src.Paths()
	return info, src, nil
}

// sourcePath strips the source root from an entry name. Only .ql files under
// the source root qualify.
func sourcePath(name string) (string, bool) {
	rel, ok := strings.CutPrefix(name, SourceRoot+"/")
	if !ok || rel == "" || !strings.HasSuffix(rel, SourceExtension) {
		return "", false
	}
	return rel, true
}

func readMetadata(zr *zip.Reader, archive string) (*Metadata, error) {
	f, err := zr.Open(MetadataEntry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &qlerr.NotFoundError{What: "metadata entry " + MetadataEntry, Where: archive}
		}
		return nil, qlerr.IO("open entry", archive+"!"+MetadataEntry, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, qlerr.IO("read entry", archive+"!"+MetadataEntry, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, &MetadataError{Archive: archive, Reason: err.Error(), Err: err}
	}
	if meta.Name == "" {
		return nil, &MetadataError{Archive: archive, Reason: "missing name"}
	}
	return &meta, nil
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
