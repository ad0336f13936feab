// SPDX-License-Identifier: MPL-2.0

// Package native stages the native artifacts shipped by packages and combines
// them into a single read-only [Context] that the program runner resolves
// symbols against.
//
// Entry points are declared by name in package metadata; nothing inspects
// compiled code to discover them. Artifacts that are zip containers also
// contribute every class entry they hold, so a runner can resolve helper
// types that were not declared.
package native
