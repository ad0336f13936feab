// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the toolchain's hot paths, used to
// generate PGO profiles:
//   - descriptor parsing (YAML and CUE)
//   - archive assembly and loading
//   - dependency validation over a large installed set
//
// Generate a profile with:
//
//	go test ./internal/benchmark -bench . -cpuprofile default.pgo
package benchmark
