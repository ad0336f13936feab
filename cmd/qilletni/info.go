// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/qilletni/toolchain/pkg/qll"
)

func newInfoCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <archive.qll>",
		Short: "Show the metadata and contents of a package archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			info, err := qll.Inspect(args[0])
			if err != nil {
				return a.fail(err)
			}
			printArchiveInfo(a.stdout, info)
			return nil
		},
	}
}

func printArchiveInfo(w io.Writer, info *qll.ArchiveInfo) {
	m := info.Metadata
	field := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-13s", key+":")), value)
		}
	}

	fmt.Fprintln(w, TitleStyle.Render(m.Name+" "+m.Version.String()))
	field("Author", m.Author)
	field("License", m.License)
	field("Description", m.Description)
	field("Package URL", m.PURL())
	field("Archive", info.Path)

	if m.HasNativeEntrypoints() || info.HasNative {
		native := "no artifact"
		if info.HasNative {
			native = qll.NativeEntry
		}
		field("Native", native)
		field("  Library", m.NativeLibraryClass)
		field("  Provider", m.NativeProviderClass)
	}

	fmt.Fprintln(w)
	if len(m.Dependencies) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No dependencies"))
	} else {
		fmt.Fprintln(w, TitleStyle.Render("Dependencies"))
		for _, d := range m.Dependencies {
			fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(d.Name), d.Range)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Sources (%d)", len(info.Sources))))
	for _, src := range info.Sources {
		fmt.Fprintf(w, "  %s\n", src)
	}
}
