// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/internal/config"
	"github.com/qilletni/toolchain/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App holds the state shared by every command of one invocation.
	App struct {
		Config config.Provider

		stdout io.Writer
		stderr io.Writer

		verbose    bool
		configPath string

		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp builds an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// NewRootCommand returns the qilletni command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "qilletni",
		Short: "Build, inspect and check Qilletni packages",
		Long: TitleStyle.Render("qilletni") + SubtitleStyle.Render(" - the Qilletni package toolchain") + `

Packages are directories with a qilletni-src folder holding .ql sources and a
qilletni_info descriptor. They are distributed as .qll archives installed in
the dependency directory (default ~/.qilletni/packages).

` + SubtitleStyle.Render("Examples:") + `
  qilletni build                 Build the package in the current directory
  qilletni build --watch         Rebuild on every source change
  qilletni info demo-1.0.0.qll   Show what an archive contains
  qilletni list                  List installed packages
  qilletni check -l .            Check dependencies with the current project loaded`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is <config dir>/qilletni/config.cue)")

	root.AddCommand(
		newBuildCommand(app),
		newCheckCommand(app),
		newInfoCommand(app),
		newListCommand(app),
		newConfigCommand(app),
	)
	return root
}

// Execute runs the CLI and exits the process with the resulting status.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// init loads configuration and builds the logger. The config file's
// ui.verbose applies only when --verbose was not given.
func (a *App) init(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId)
		return err
	}
	a.cfg = cfg
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: "qilletni",
		Level:  level,
	})
	return nil
}

// fail renders the guidance matching err, if there is any, and returns err.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	a.renderIssue(issue.ForError(err))
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		for _, s := range ae.Suggestions {
			fmt.Fprintln(a.stderr, SubtitleStyle.Render("  • "+s))
		}
	}
	if a.verbose {
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintln(a.stderr, SubtitleStyle.Render("  caused by: "+cause.Error()))
		}
	}
	return err
}

func (a *App) renderIssue(id issue.Id) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	rendered, err := is.Render("auto")
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
