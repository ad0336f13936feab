// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/internal/issue"
	"github.com/qilletni/toolchain/internal/watch"
	"github.com/qilletni/toolchain/pkg/qll"
)

// Builder assembles archives and reports each result through OnBuilt.
type Builder struct {
	Options qll.BuildOptions
	Logger  *log.Logger
	// OnBuilt, when set, is called after every successful build.
	OnBuilt func(*qll.BuildResult)
}

// Build assembles one archive.
func (b *Builder) Build() (*qll.BuildResult, error) {
	logger := b.logger()
	start := time.Now()

	res, err := qll.Assemble(b.Options)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build package").
			WithResource(filepath.Join(b.Options.ProjectRoot, qll.SourceRoot)).
			Wrap(err).
			BuildError()
	}

	logger.Info("built package",
		"package", res.Metadata.Name,
		"version", res.Metadata.Version,
		"sources", res.Sources,
		"archive", res.Archive,
		"took", time.Since(start).Round(time.Millisecond))
	if b.OnBuilt != nil {
		b.OnBuilt(res)
	}
	return res, nil
}

// Watch builds once and then rebuilds whenever a source file or the
// descriptor changes, until ctx is cancelled. A failed initial build is
// returned; later failures are logged and watching continues.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration) error {
	if _, err := b.Build(); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		ProjectRoot: b.Options.ProjectRoot,
		Debounce:    debounce,
		Logger:      b.logger(),
		OnChange: func(context.Context, []string) error {
			_, err := b.Build()
			return err
		},
	})
	if err != nil {
		return issue.WrapWithContext(err, "watch project", b.Options.ProjectRoot)
	}

	b.logger().Info("watching for changes", "root", w.Root())
	return w.Run(ctx)
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}
