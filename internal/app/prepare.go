// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/internal/issue"
	"github.com/qilletni/toolchain/pkg/deps"
	"github.com/qilletni/toolchain/pkg/native"
	"github.com/qilletni/toolchain/pkg/qlerr"
	"github.com/qilletni/toolchain/pkg/qll"
)

type (
	// PrepareOptions configures Prepare.
	PrepareOptions struct {
		// DependencyDir holds the installed *.qll archives.
		DependencyDir string
		// LocalLibrary is the root of an unpackaged project loaded ahead of
		// the installed archives. Archives with the same package name are
		// skipped.
		LocalLibrary string
		// LocalNative is the native artifact of LocalLibrary, if it has one.
		LocalNative string
		// StagingParent is where the per-run staging directory is created.
		// Empty means the system temporary directory.
		StagingParent string

		Logger *log.Logger
	}

	// Session is everything a run needs once preparation succeeded. The
	// registry and native context are not modified after Prepare returns.
	Session struct {
		Registry *qll.Registry
		// Packages lists the loaded metadata in load order, local library
		// first. Archives sharing a name all appear here.
		Packages []*qll.Metadata
		Natives  *native.Context
		Report   *deps.Report
		// StagingDir is removed by Close.
		StagingDir string
	}
)

// Prepare loads the local library (if any) and every archive in the
// dependency directory, stages their native artifacts, builds the native
// context and validates dependencies. Unmet dependencies are reported in
// Session.Report and do not fail Prepare; load and staging failures do.
// On success the caller must Close the session.
func Prepare(ctx context.Context, opts PrepareOptions) (_ *Session, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	staging, err := os.MkdirTemp(opts.StagingParent, "qilletni-native-")
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("create native staging directory").
			WithResource(opts.StagingParent).
			WithSuggestion("Check that the staging_dir setting points to a writable directory").
			WithKind(qlerr.ErrIO).
			Wrap(err).
			BuildError()
	}
	s := &Session{Registry: qll.NewRegistry(), StagingDir: staging}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	loader := qll.NewLoader(s.Registry, qll.WithLogger(logger))
	stager := native.NewStager(staging, native.WithLogger(logger))

	var localName string
	if opts.LocalLibrary != "" {
		meta, loadErr := loader.LoadLocal(opts.LocalLibrary)
		if loadErr != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load local library").
				WithResource(opts.LocalLibrary).
				WithSuggestion("The directory must contain qilletni-src/qilletni_info.yml").
				Wrap(loadErr).
				BuildError()
		}
		localName = meta.Name
		s.Packages = append(s.Packages, meta)
		if opts.LocalNative != "" {
			if stageErr := stager.StageLocal(opts.LocalNative, meta); stageErr != nil {
				return nil, issue.WrapWithContext(stageErr, "stage local native artifact", opts.LocalNative)
			}
		}
	}

	archives, err := listArchives(opts.DependencyDir)
	if err != nil {
		return nil, err
	}
	for _, path := range archives {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		meta, src, openErr := qll.Open(path)
		if openErr != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load package").
				WithResource(path).
				WithSuggestion("Rebuild or reinstall the package, or remove it from the dependency directory").
				Wrap(openErr).
				BuildError()
		}
		if localName != "" && meta.Name == localName {
			logger.Info("local library shadows installed package", "package", meta.Name, "archive", path)
			continue
		}
		// A later archive reusing a name stays in the loaded set; only source
		// lookups go to the first registration.
		loader.Register(meta, src)
		s.Packages = append(s.Packages, meta)

		if _, stageErr := stager.Extract(path, meta); stageErr != nil {
			return nil, issue.WrapWithContext(stageErr, "stage native artifact", path)
		}
	}

	if s.Natives, err = stager.Build(); err != nil {
		return nil, issue.WrapWithContext(err, "build native context", staging)
	}
	s.Report = deps.NewValidator(deps.WithLogger(logger)).Validate(s.Packages)
	return s, nil
}

// Close removes the staging directory.
func (s *Session) Close() error {
	if s == nil || s.StagingDir == "" {
		return nil
	}
	return os.RemoveAll(s.StagingDir)
}

// listArchives returns the *.qll files directly inside dir in lexical order.
// A missing directory holds no archives.
func listArchives(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read dependency directory").
			WithResource(dir).
			WithKind(qlerr.ErrIO).
			Wrap(err).
			BuildError()
	}

	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == qll.Extension {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}
