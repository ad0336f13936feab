// SPDX-License-Identifier: MPL-2.0

// Package version implements Qilletni package versions and version ranges.
//
// A [Version] is a plain major.minor.patch triple with no pre-release or build
// metadata. A [Range] pairs a base version with an [Operator]:
//
//	1.2.3   exact: only 1.2.3
//	~1.2.3  tilde: 1.2.x with x >= 3
//	^1.2.3  caret: 1.y.z with y >= 2, or any 1.y.z with z >= 3
//
// Both types encode to JSON and text in their string form and also decode the
// object form written by older toolchain releases.
package version
