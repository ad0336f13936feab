// SPDX-License-Identifier: MPL-2.0

// Package qll reads and writes .qll package archives.
//
// A .qll archive is a zip file containing:
//
//	qll.info                 JSON package metadata
//	qilletni-src/**/*.ql     package sources, paths relative to qilletni-src
//	native.jar               optional native artifact
//
// [Open] reads an archive into a [Metadata] and an in-memory [ArchiveSource].
// [LoadLocal] serves an unpackaged project tree through a lazily reading
// [LocalSource]. A [Loader] performs either load and registers the resulting
// resolver with a per-invocation [Registry], which is what the program runner
// queries for import resolution.
package qll
