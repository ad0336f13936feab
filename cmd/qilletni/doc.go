// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the qilletni command-line interface: building package
// archives, inspecting them, listing installed packages and checking that an
// installed set satisfies its declared dependencies.
package cmd
