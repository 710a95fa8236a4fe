// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/pkg/lumfile"
	"github.com/lumenlang/lumen/pkg/modtree"
)

var (
	explainFrom string
	explainTest bool
)

// explainCmd narrates how a path resolves step by step.
var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Show how a path resolves, step by step",
	Long: `Show how a path resolves, step by step.

The path is resolved exactly as the program would resolve it, and every
step is narrated: where resolution starts, which members are found,
whether each is visible, and where re-exports forward to.

By default resolution starts at the root module; use --from to start
somewhere else.`,
	Example: `  lumen explain crate::net::dial
  lumen explain super::helper --from crate::net
  lumen explain FAMILY --from crate::platform`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainFrom, "from", "", "module the path is resolved from (default is the root)")
	explainCmd.Flags().BoolVar(&explainTest, "test", false, "also mount #[cfg(test)] modules")
}

func runExplain(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace("", explainTest)
	if err != nil {
		return err
	}

	p, err := lumfile.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", args[0], err)
	}

	from := ws.Tree.Root
	if explainFrom != "" {
		from, err = lookupModule(ws.Tree, explainFrom)
		if err != nil {
			return err
		}
	}

	steps, sym, resolveErr := ws.Tree.Explain(from, p)
	for _, step := range steps {
		fmt.Println(SubtitleStyle.Render("  • ") + step)
	}
	if resolveErr != nil {
		fmt.Println(ErrorStyle.Render("✗ ") + resolveErr.Error())
		return &ExitError{Code: 1, Err: resolveErr}
	}

	fmt.Println(SuccessStyle.Render("✓ ") + symbolSummary(sym))
	return nil
}

// symbolSummary renders the resolved symbol with its location. Module
// symbols print their own path: the root module has no parent to name.
func symbolSummary(sym *modtree.Symbol) string {
	if sym.Kind == modtree.KindModule {
		return fmt.Sprintf("%s %s", sym.Kind, PathStyle.Render(sym.Mod.Path()))
	}
	return fmt.Sprintf("%s %s in %s",
		sym.Kind,
		PathStyle.Render(sym.Name),
		PathStyle.Render(sym.Module.Path()))
}

// lookupModule walks a crate::-rooted module path to the module it names,
// ignoring visibility: explain inspects the tree, it does not live in it.
func lookupModule(tree *modtree.Tree, text string) (*modtree.Module, error) {
	p, err := lumfile.ParsePath(text)
	if err != nil {
		return nil, fmt.Errorf("invalid --from path %q: %w", text, err)
	}
	if p.Root != lumfile.RootCrate && !(p.Root == lumfile.RootRelative && len(p.Segments) > 0) {
		return nil, fmt.Errorf("--from must be a crate:: path, got %q", text)
	}

	m := tree.Root
	for _, seg := range p.Segments {
		next := m.Child(seg)
		if next == nil {
			return nil, fmt.Errorf("--from: module %s has no child `%s`", m.Path(), seg)
		}
		m = next
	}
	return m, nil
}
