// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/pkg/modtree"
)

var graphTest bool

// graphCmd prints the module tree for the selected target.
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Print the module tree",
	Long: `Print the module tree for the selected target.

Modules gated behind #[cfg(...)] attributes that do not match the target
are absent from the tree, exactly as they are absent at run time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&graphTest, "test", false, "also mount #[cfg(test)] modules")
}

func runGraph(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(firstArg(args), graphTest)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render(ws.Manifest.Package.Name) +
		SubtitleStyle.Render(" (target "+ws.Target.String()+")"))
	writeModule(os.Stdout, ws.Tree.Root, "")
	return nil
}

func writeModule(w io.Writer, m *modtree.Module, indent string) {
	fmt.Fprintln(w, indent+moduleLabel(m)+SubtitleStyle.Render("  "+m.File))

	child := indent + "  "
	for _, c := range m.Constants() {
		fmt.Fprintln(w, child+symbolLabel("const "+c.Name, c.Public))
	}
	for _, f := range m.Functions() {
		fmt.Fprintln(w, child+symbolLabel("fn "+f.Name, f.Public))
	}
	for _, u := range m.Uses() {
		label := "use " + u.Path.String()
		if u.Glob {
			label += "::*"
		} else if u.Alias != "" {
			label += " as " + u.Alias
		}
		fmt.Fprintln(w, child+symbolLabel(label, u.Public))
	}
	for _, c := range m.Children() {
		writeModule(w, c, child)
	}
}

func moduleLabel(m *modtree.Module) string {
	name := m.Name
	if m.Parent == nil {
		name = modtree.RootName
	}
	if m.Parent != nil && !m.Public {
		return PrivateStyle.Render("mod " + name)
	}
	return PathStyle.Render("mod " + name)
}

func symbolLabel(text string, public bool) string {
	if public {
		return "pub " + text
	}
	return PrivateStyle.Render(strings.TrimSpace(text))
}
