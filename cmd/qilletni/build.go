// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/internal/app"
	"github.com/qilletni/toolchain/pkg/qll"
)

type buildFlags struct {
	output         string
	native         string
	nativeLibrary  string
	nativeProvider string
	watch          bool
}

func newBuildCommand(a *App) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build [project-root]",
		Short: "Assemble a .qll archive from a project",
		Long: `Assemble a .qll archive from the project at project-root (default: the
current directory).

Every .ql file under qilletni-src is packaged together with the metadata
read from qilletni-src/qilletni_info.{yml,yaml,cue}. The archive is named
<name>-<version>.qll and written to the dependency directory unless --output
names a directory or a .qll file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.fail(runBuild(cmd, a, root, flags))
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "archive file (*.qll) or directory to write to")
	cmd.Flags().StringVar(&flags.native, "native", "", "prebuilt native artifact to embed as native.jar")
	cmd.Flags().StringVar(&flags.nativeLibrary, "native-library", "", "override the declared native library entry point")
	cmd.Flags().StringVar(&flags.nativeProvider, "native-provider", "", "override the declared native provider entry point")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever a source file or the descriptor changes")
	return cmd
}

func runBuild(cmd *cobra.Command, a *App, root string, flags buildFlags) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	opts := qll.BuildOptions{
		ProjectRoot:         absRoot,
		Output:              flags.output,
		NativeArtifact:      flags.native,
		NativeLibraryClass:  flags.nativeLibrary,
		NativeProviderClass: flags.nativeProvider,
	}
	if opts.Output == "" {
		if opts.DefaultDir, err = a.cfg.EnsureDependencyDir(); err != nil {
			return err
		}
	}

	b := &app.Builder{
		Options: opts,
		Logger:  a.logger,
		OnBuilt: func(res *qll.BuildResult) {
			fmt.Fprintf(a.stdout, "%s Built %s %s (%d sources) → %s\n",
				SuccessStyle.Render("✓"),
				KeyStyle.Render(res.Metadata.Name),
				res.Metadata.Version,
				res.Sources,
				res.Archive)
		},
	}

	if flags.watch {
		return b.Watch(cmd.Context(), 0)
	}
	_, err = b.Build()
	return err
}
