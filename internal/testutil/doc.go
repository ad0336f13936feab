// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures for tests that need Qilletni projects,
// archives and native artifacts on disk, plus small Must* helpers that fail
// the test on error.
package testutil
