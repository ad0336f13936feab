// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/pkg/manifest"
	"github.com/qilletni/toolchain/pkg/qlerr"
)

type (
	// LocalSource resolves sources of an unpackaged project tree. Files are
	// read on first request and memoized; a failed read is remembered as
	// not found and never retried.
	LocalSource struct {
		paths    map[string]string
		readFile func(string) ([]byte, error)
		logger   *log.Logger

		mu    sync.Mutex
		cache map[string]cachedSource
	}

	cachedSource struct {
		text string
		ok   bool
	}
)

// LoadLocal reads the descriptor in projectRoot/qilletni-src and indexes every
// .ql file below it.
func LoadLocal(projectRoot string) (*Metadata, *LocalSource, error) {
	return loadLocal(projectRoot, os.ReadFile, log.Default())
}

func loadLocal(projectRoot string, readFile func(string) ([]byte, error), logger *log.Logger) (*Metadata, *LocalSource, error) {
	if logger == nil {
		logger = log.Default()
	}
	srcDir := filepath.Join(projectRoot, SourceRoot)

	m, err := manifest.Parse(srcDir)
	if err != nil {
		return nil, nil, err
	}

	paths := make(map[string]string)
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return qlerr.IO("walk", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SourceExtension) {
			return nil
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return qlerr.IO("resolve", path, relErr)
		}
		paths[filepath.ToSlash(rel)] = path
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return FromManifest(m), &LocalSource{
		paths:    paths,
		readFile: readFile,
		logger:   logger,
		cache:    make(map[string]cachedSource),
	}, nil
}

// Resolve returns the text of the source at relPath.
func (s *LocalSource) Resolve(relPath string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, hit := s.cache[relPath]; hit {
		return c.text, c.ok
	}

	var c cachedSource
	if abs, known := s.paths[relPath]; known {
		data, err := s.readFile(abs)
		if err != nil {
			s.logger.Error("failed to read local source", "path", abs, "err", err)
		} else {
			c = cachedSource{text: string(data), ok: true}
		}
	}
	s.cache[relPath] = c
	return c.text, c.ok
}

// Paths returns the resolvable source paths in lexical order.
func (s *LocalSource) Paths() []string {
	return slices.Sorted(maps.Keys(s.paths))
}
