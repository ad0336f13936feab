// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/internal/config"
	"github.com/qilletni/toolchain/internal/issue"
)

func newConfigCommand(a *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage qilletni configuration",
		Long: `Manage qilletni configuration.

Configuration is read from config.cue in:
  - Linux: $XDG_CONFIG_HOME/qilletni (default ~/.config/qilletni)
  - macOS: ~/Library/Application Support/qilletni
  - Windows: %APPDATA%\qilletni

Every key can also be set through the environment with the QILLETNI_ prefix,
e.g. QILLETNI_DEPENDENCY_PATH or QILLETNI_LOG_LEVEL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.LoadWithPath(cmd.Context(), config.LoadOptions{ConfigFilePath: a.configPath})
			if err != nil {
				return a.fail(err)
			}
			showConfig(a, loaded)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.fail(initConfig(a, force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(a *App, loaded *config.Loaded) {
	cfg := loaded.Config
	w := a.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if loaded.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), loaded.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	staging := cfg.StagingDir
	if staging == "" {
		staging = SubtitleStyle.Render("(system temporary directory)")
	}
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("dependency_path"), SuccessStyle.Render(cfg.DependencyPath))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("index_path"), SuccessStyle.Render(cfg.IndexPath))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("staging_dir"), staging)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("log.level"), SuccessStyle.Render(cfg.Log.Level))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("ui.verbose"), SuccessStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}

func initConfig(a *App, force bool) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)

	if _, statErr := os.Stat(path); statErr == nil && !force {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Use --force to overwrite it").
			Wrap(errors.New("configuration file already exists")).
			BuildError()
	}

	if err := config.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
