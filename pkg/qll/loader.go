// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"os"

	"github.com/charmbracelet/log"
)

type (
	// Loader loads packages and registers their sources with a Registry.
	Loader struct {
		registry *Registry
		logger   *log.Logger
		readFile func(string) ([]byte, error)
	}

	// LoaderOption configures a Loader.
	LoaderOption func(*Loader)
)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader registering into reg.
func NewLoader(reg *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: reg,
		logger:   log.Default(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the registry this loader registers into.
func (l *Loader) Registry() *Registry { return l.registry }

// LoadArchive opens the archive at path and registers its sources under the
// package name.
func (l *Loader) LoadArchive(path string) (*Metadata, error) {
	l.logger.Debug("loading archive", "path", path)

	meta, src, err := Open(path)
	if err != nil {
		return nil, err
	}
	l.Register(meta, src)
	return meta, nil
}

// LoadLocal loads the unpackaged project at projectRoot and registers its
// sources under the package name.
func (l *Loader) LoadLocal(projectRoot string) (*Metadata, error) {
	l.logger.Debug("loading local library", "root", projectRoot)

	meta, src, err := loadLocal(projectRoot, l.readFile, l.logger)
	if err != nil {
		return nil, err
	}
	l.Register(meta, src)
	return meta, nil
}

// Register adds src under meta.Name. It reports false, and logs a warning,
// when the name is already taken; the first registration is kept.
func (l *Loader) Register(meta *Metadata, src SourceResolver) bool {
	if !l.registry.Register(meta.Name, src) {
		l.logger.Warn("package already registered, keeping first", "package", meta.Name, "version", meta.Version)
		return false
	}
	l.logger.Debug("registered package", "package", meta.Name, "version", meta.Version)
	return true
}
