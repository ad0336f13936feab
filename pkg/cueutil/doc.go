// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE decoding flow used for package
// descriptors (qilletni_info.cue) and the toolchain configuration file:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go value
//
// Errors carry the file name and a JSON-path style location, and unwrap to
// qlerr.ErrFormat.
//
//	//go:embed manifest_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[document](
//	    schema, data, "#Manifest",
//	    cueutil.WithFilename("qilletni_info.cue"),
//	)
package cueutil
