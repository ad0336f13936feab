// SPDX-License-Identifier: MPL-2.0

// Package index keeps a sqlite catalogue of the archives installed in the
// dependency directory so that listing them does not reopen every archive.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/pkg/qll"
	"github.com/qilletni/toolchain/pkg/version"

	_ "modernc.org/sqlite"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

type (
	// Entry is one indexed archive.
	Entry struct {
		Path         string
		Name         string
		Version      version.Version
		Author       string
		License      string
		PURL         string
		Dependencies int
		HasNative    bool
		Size         int64
		ModTime      time.Time
	}

	// SyncStats counts what a Sync changed.
	SyncStats struct {
		Added     int
		Updated   int
		Removed   int
		Unchanged int
		Skipped   int
	}

	// Option configures an Index.
	Option func(*Index)

	// Index is a sqlite-backed catalogue of installed archives.
	Index struct {
		db     *sql.DB
		logger *log.Logger
	}

	stamp struct {
		size    int64
		modTime int64
	}
)

// WithLogger sets the logger used to report unreadable archives.
func WithLogger(l *log.Logger) Option {
	return func(i *Index) { i.logger = l }
}

// Open opens or creates the index database at path and ensures its schema.
// Use Memory for a throwaway index.
func Open(path string, opts ...Option) (*Index, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps an
	// in-memory database alive for the lifetime of the Index.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}

	idx := &Index{db: db, logger: log.Default()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Close closes the database.
func (i *Index) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}

// Sync brings the index in line with the *.qll files directly inside dir.
// Archives whose size and modification time are unchanged are not reopened.
// Archives that cannot be read are skipped and counted, and any stale row for
// them is dropped.
func (i *Index) Sync(ctx context.Context, dir string) (stats SyncStats, err error) {
	known, err := i.stamps(ctx)
	if err != nil {
		return stats, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return stats, fmt.Errorf("read dependency directory: %w", err)
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin index sync: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	seen := make(map[string]bool, len(entries))
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), qll.Extension) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		fi, statErr := de.Info()
		if statErr != nil {
			i.logger.Warn("skipping archive", "path", path, "err", statErr)
			stats.Skipped++
			continue
		}

		cur := stamp{size: fi.Size(), modTime: fi.ModTime().UnixNano()}
		prev, existed := known[path]
		if existed && prev == cur {
			seen[path] = true
			stats.Unchanged++
			continue
		}

		info, inspectErr := qll.Inspect(path)
		if inspectErr != nil {
			i.logger.Warn("skipping archive", "path", path, "err", inspectErr)
			stats.Skipped++
			continue
		}
		if err = upsert(ctx, tx, info, cur); err != nil {
			return stats, err
		}
		seen[path] = true
		if existed {
			stats.Updated++
		} else {
			stats.Added++
		}
	}

	for path := range known {
		if seen[path] {
			continue
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM packages WHERE path = ?`, path); err != nil {
			return stats, fmt.Errorf("remove %s from index: %w", path, err)
		}
		stats.Removed++
	}

	if err = tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit index sync: %w", err)
	}
	return stats, nil
}

// List returns every indexed archive ordered by name, then version.
func (i *Index) List(ctx context.Context) ([]Entry, error) {
	return i.query(ctx, `WHERE 1 = 1`)
}

// Lookup returns the indexed archives named name ordered by version.
func (i *Index) Lookup(ctx context.Context, name string) ([]Entry, error) {
	return i.query(ctx, `WHERE name = ?`, name)
}

func (i *Index) query(ctx context.Context, where string, args ...any) ([]Entry, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT path, name, version, author, license, purl, dependency_count, has_native, size_bytes, mod_time
		FROM packages `+where+`
		ORDER BY name, major, minor, patch, path`, args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			ver     string
			license sql.NullString
			modTime int64
		)
		if err := rows.Scan(&e.Path, &e.Name, &ver, &e.Author, &license, &e.PURL,
			&e.Dependencies, &e.HasNative, &e.Size, &modTime); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		if e.Version, err = version.Parse(ver); err != nil {
			return nil, fmt.Errorf("index row %s: %w", e.Path, err)
		}
		e.License = license.String
		e.ModTime = time.Unix(0, modTime)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read index rows: %w", err)
	}
	return out, nil
}

func (i *Index) stamps(ctx context.Context) (map[string]stamp, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT path, size_bytes, mod_time FROM packages`)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	out := make(map[string]stamp)
	for rows.Next() {
		var (
			path string
			s    stamp
		)
		if err := rows.Scan(&path, &s.size, &s.modTime); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		out[path] = s
	}
	return out, rows.Err()
}

func upsert(ctx context.Context, tx *sql.Tx, info *qll.ArchiveInfo, s stamp) error {
	m := info.Metadata
	var license sql.NullString
	if m.License != "" {
		license = sql.NullString{String: m.License, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO packages
		(path, name, version, major, minor, patch, author, license, purl, dependency_count, has_native, size_bytes, mod_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.Path,
		m.Name,
		m.Version.String(),
		m.Version.Major,
		m.Version.Minor,
		m.Version.Patch,
		m.Author,
		license,
		m.PURL(),
		len(m.Dependencies),
		info.HasNative,
		s.size,
		s.modTime,
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", info.Path, err)
	}
	return nil
}
