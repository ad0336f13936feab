// SPDX-License-Identifier: MPL-2.0

package native

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/pkg/qll"
)

type (
	// Artifact is one staged native artifact and the entry points its
	// package declares.
	Artifact struct {
		Path     string
		Package  string
		Library  string
		Provider string
	}

	// Stager collects the native artifacts of one run in a staging directory.
	Stager struct {
		dir    string
		logger *log.Logger

		mu        sync.Mutex
		artifacts []Artifact
	}

	// Option configures a Stager.
	Option func(*Stager)
)

// WithLogger sets the logger used for staging diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Stager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStager returns a Stager writing into dir.
func NewStager(dir string, opts ...Option) *Stager {
	s := &Stager{dir: dir, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// Extract stages the native artifact of the archive at archivePath, if it has
// one. meta supplies the declared entry points.
func (s *Stager) Extract(archivePath string, meta *qll.Metadata) (bool, error) {
	staged, ok, err := qll.ExtractNative(archivePath, s.dir)
	if err != nil || !ok {
		return false, err
	}
	s.add(staged, meta)
	return true, nil
}

// StageLocal copies the native artifact of an unpackaged library to
// <dir>/<name>-<version>.jar and stages it.
func (s *Stager) StageLocal(artifactPath string, meta *qll.Metadata) error {
	dst := filepath.Join(s.dir, meta.Name+"-"+meta.Version.String()+".jar")
	if err := qll.CopyFile(artifactPath, dst); err != nil {
		return err
	}
	s.add(dst, meta)
	return nil
}

func (s *Stager) add(path string, meta *qll.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.artifacts = append(s.artifacts, Artifact{
		Path:     path,
		Package:  meta.Name,
		Library:  meta.NativeLibraryClass,
		Provider: meta.NativeProviderClass,
	})
	s.logger.Debug("staged native artifact", "package", meta.Name, "path", path)
}

// Artifacts returns the staged artifacts in staging order.
func (s *Stager) Artifacts() []Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.artifacts)
}

// Build combines every staged artifact into a Context.
func (s *Stager) Build() (*Context, error) {
	return Build(s.Artifacts())
}
