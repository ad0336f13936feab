// SPDX-License-Identifier: MPL-2.0

// Package app orchestrates the package-management core for the CLI: building
// archives, optionally rebuilding on change, and preparing a run by loading
// every installed package, staging native artifacts and validating the
// declared dependencies.
package app
