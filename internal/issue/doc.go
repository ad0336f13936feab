// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// [ActionableError] carries the failed operation, the resource involved and
// remediation hints. The issue catalog holds Markdown guidance for the known
// failure classes of the toolchain, rendered with glamour by the CLI.
package issue
