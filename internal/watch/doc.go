// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when files in a Qilletni project change.
//
// A [Watcher] registers every non-ignored directory under the project root
// with fsnotify, filters events through doublestar glob patterns and coalesces
// bursts of events into a single callback after a quiet period. The build
// output directory is always ignored so that a rebuild never triggers itself.
package watch
