// SPDX-License-Identifier: MPL-2.0

// Package config handles toolchain configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in the platform config directory
// (~/.config/qilletni on Linux, ~/Library/Application Support/qilletni on
// macOS, %APPDATA%\qilletni on Windows) or the current directory, validated
// against the embedded #Config schema and layered over defaults. Environment
// variables prefixed with QILLETNI_ override file values, e.g.
// QILLETNI_DEPENDENCY_PATH or QILLETNI_LOG_LEVEL.
package config
