// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/pkg/modtree"
)

var docAll bool

// docCmd renders the package's doc comments as a Markdown document.
var docCmd = &cobra.Command{
	Use:   "doc [path]",
	Short: "Render the package's documentation",
	Long: `Render the package's documentation.

Doc comments (///) on modules, functions, and constants are collected
into a Markdown document and rendered for the terminal. By default only
the exported surface is included; --all includes private symbols too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoc,
}

func init() {
	docCmd.Flags().BoolVar(&docAll, "all", false, "include private symbols")
}

func runDoc(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(firstArg(args), false)
	if err != nil {
		return err
	}

	md := buildDocMarkdown(ws)

	out, err := glamour.Render(md, glamourStyle())
	if err != nil {
		return fmt.Errorf("failed to render documentation: %w", err)
	}
	fmt.Print(out)
	return nil
}

func buildDocMarkdown(ws *workspace) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", ws.Manifest.Package.Name)
	if ws.Manifest.Package.Description != "" {
		sb.WriteString(ws.Manifest.Package.Description + "\n\n")
	}

	ws.Tree.Root.Walk(func(m *modtree.Module) {
		if m.Parent != nil && !m.Public && !docAll {
			return
		}

		if m.Parent == nil {
			fmt.Fprintf(&sb, "## %s\n\n", modtree.RootName)
		} else {
			fmt.Fprintf(&sb, "## %s\n\n", m.Path())
		}
		if m.Doc != "" {
			sb.WriteString(m.Doc + "\n\n")
		}

		for _, c := range m.Constants() {
			if !c.Public && !docAll {
				continue
			}
			fmt.Fprintf(&sb, "### `const %s = %q`\n\n", c.Name, c.Value)
			if c.Doc != "" {
				sb.WriteString(c.Doc + "\n\n")
			}
		}
		for _, f := range m.Functions() {
			if !f.Public && !docAll {
				continue
			}
			fmt.Fprintf(&sb, "### `fn %s()`\n\n", f.Name)
			if f.Doc != "" {
				sb.WriteString(f.Doc + "\n\n")
			}
		}
		for _, u := range m.Uses() {
			if !u.Public {
				continue
			}
			fmt.Fprintf(&sb, "### `pub use %s`\n\n", u.Path.String())
		}
	})

	return sb.String()
}
