// SPDX-License-Identifier: MPL-2.0

// Package manifest parses the human-authored package descriptor,
// qilletni_info, found directly inside a package's source root.
//
// The descriptor may be written as YAML (qilletni_info.yml or
// qilletni_info.yaml) or CUE (qilletni_info.cue); the first existing file in
// that order is used. Recognized keys:
//
//	name: demo                  # required
//	version: 1.0.0              # required, major.minor.patch
//	author: jane                # required
//	license: MIT                # optional SPDX expression
//	description: Demo library   # optional
//	native_library: demo.Lib    # optional native entry points
//	native_provider: demo.Prov
//	dependencies:               # optional "<name>:<range>" strings
//	  - std:^1.0.0
package manifest
