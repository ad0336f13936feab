// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/internal/app"
	"github.com/qilletni/toolchain/internal/index"
)

func newListCommand(a *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List the .qll archives in the dependency directory.

Archive metadata is cached in the package index (index_path in the
configuration); only archives added or modified since the last listing are
reopened.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.DependencyPath
			}
			entries, err := app.ListInstalled(cmd.Context(), a.cfg.IndexPath, dir, a.logger)
			if err != nil {
				return a.fail(err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(a.stdout, "%s %s\n", SubtitleStyle.Render("No packages installed in"), dir)
				return nil
			}
			fmt.Fprintln(a.stdout, renderPackages(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dependency-dir", "d", "", "directory holding installed .qll archives (default from config)")
	return cmd
}

func renderPackages(entries []index.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		native := ""
		if e.HasNative {
			native = "yes"
		}
		rows = append(rows, []string{
			e.Name,
			e.Version.String(),
			e.Author,
			strconv.Itoa(e.Dependencies),
			native,
			e.PURL,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("NAME", "VERSION", "AUTHOR", "DEPS", "NATIVE", "PURL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableCellStyle.Foreground(ColorHighlight)
			default:
				return tableCellStyle
			}
		}).
		String()
}
