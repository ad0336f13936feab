// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/internal/app"
	"github.com/qilletni/toolchain/internal/issue"
	"github.com/qilletni/toolchain/pkg/deps"
)

var errUnmetDependencies = errors.New("dependencies not satisfied")

type checkFlags struct {
	dependencyDir string
	local         string
	localNative   string
}

func newCheckCommand(a *App) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load installed packages and validate their dependencies",
		Long: `Load every installed package the way a program run would: the optional
local library first, then every .qll archive in the dependency directory.
Native artifacts are staged and indexed, then each declared dependency is
checked against the loaded versions.

The command exits with status 1 when any dependency is missing or its
version is not permitted by the declared range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := flags.dependencyDir
			if dir == "" {
				dir = a.cfg.DependencyPath
			}

			s, err := app.Prepare(cmd.Context(), app.PrepareOptions{
				DependencyDir: dir,
				LocalLibrary:  flags.local,
				LocalNative:   flags.localNative,
				StagingParent: a.cfg.StagingDir,
				Logger:        a.logger,
			})
			if err != nil {
				return a.fail(err)
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					a.logger.Warn("remove staging directory", "path", s.StagingDir, "err", closeErr)
				}
			}()

			fmt.Fprintf(a.stdout, "%s %d packages, %d native symbols\n",
				TitleStyle.Render("Loaded"), len(s.Packages), s.Natives.Len())
			if len(s.Report.Results) > 0 {
				fmt.Fprintln(a.stdout, renderReport(s.Report))
			}

			if !s.Report.OK() {
				a.renderIssue(issue.DependenciesNotSatisfiedId)
				return &ExitError{Code: 1, Err: fmt.Errorf("%w: %d unmet", errUnmetDependencies, len(s.Report.Unmet()))}
			}
			fmt.Fprintf(a.stdout, "%s all dependencies satisfied\n", SuccessStyle.Render("✓"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.dependencyDir, "dependency-dir", "d", "", "directory holding installed .qll archives (default from config)")
	cmd.Flags().StringVarP(&flags.local, "local", "l", "", "unpackaged project root loaded ahead of installed packages")
	cmd.Flags().StringVar(&flags.localNative, "local-native", "", "native artifact of the local project")
	return cmd
}

// renderReport renders one row per declared dependency.
func renderReport(r *deps.Report) string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		status := "yes"
		if !res.Satisfied {
			status = "no"
		}
		rows = append(rows, []string{
			res.Package + " " + res.Version.String(),
			res.Dependency,
			res.Required.String(),
			res.FoundString(),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("PACKAGE", "DEPENDENCY", "REQUIRED", "FOUND", "SATISFIED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 4 {
				if r.Results[row].Satisfied {
					return tableCellStyle.Foreground(ColorSuccess)
				}
				return tableCellStyle.Foreground(ColorError)
			}
			return tableCellStyle
		})
	return t.String()
}
