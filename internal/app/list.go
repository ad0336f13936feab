// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/internal/index"
	"github.com/qilletni/toolchain/internal/issue"
)

// ListInstalled refreshes the package index at indexPath from dependencyDir
// and returns its entries.
func ListInstalled(ctx context.Context, indexPath, dependencyDir string, logger *log.Logger) ([]index.Entry, error) {
	if logger == nil {
		logger = log.Default()
	}

	idx, err := index.Open(indexPath, index.WithLogger(logger))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open package index").
			WithResource(indexPath).
			WithSuggestion("Delete the index file; it is rebuilt on the next run").
			Wrap(err).
			BuildError()
	}
	defer func() {
		if closeErr := idx.Close(); closeErr != nil {
			logger.Warn("close package index", "err", closeErr)
		}
	}()

	stats, err := idx.Sync(ctx, dependencyDir)
	if err != nil {
		return nil, issue.WrapWithContext(err, "refresh package index", dependencyDir)
	}
	logger.Debug("package index refreshed",
		"added", stats.Added,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped)

	return idx.List(ctx)
}
