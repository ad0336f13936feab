// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// HomeDirName is the per-user toolchain directory below the home directory.
	HomeDirName = ".qilletni"
	// PackagesDirName holds installed archives below HomeDirName.
	PackagesDirName = "packages"
	// IndexFileName is the package index database below HomeDirName.
	IndexFileName = "index.db"
)

type (
	// Config is the effective toolchain configuration.
	Config struct {
		DependencyPath string    `json:"dependency_path" mapstructure:"dependency_path"`
		IndexPath      string    `json:"index_path" mapstructure:"index_path"`
		StagingDir     string    `json:"staging_dir" mapstructure:"staging_dir"`
		Log            LogConfig `json:"log" mapstructure:"log"`
		UI             UIConfig  `json:"ui" mapstructure:"ui"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults. Paths below the home directory
// fall back to relative paths when the home directory is unknown.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, HomeDirName)
	return &Config{
		DependencyPath: filepath.Join(base, PackagesDirName),
		IndexPath:      filepath.Join(base, IndexFileName),
		Log:            LogConfig{Level: "info"},
	}
}

// EnsureDependencyDir creates the dependency directory if needed and returns it.
func (c *Config) EnsureDependencyDir() (string, error) {
	if err := os.MkdirAll(c.DependencyPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dependency directory: %w", err)
	}
	return c.DependencyPath, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Qilletni toolchain configuration\n\n")
	fmt.Fprintf(&sb, "dependency_path: %q\n", cfg.DependencyPath)
	fmt.Fprintf(&sb, "index_path: %q\n", cfg.IndexPath)
	fmt.Fprintf(&sb, "staging_dir: %q\n", cfg.StagingDir)

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
