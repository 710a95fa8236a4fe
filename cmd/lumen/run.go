// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/internal/interp"
)

// runCmd executes the package's main function.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the package in the current directory",
	Long: `Run the package in the current directory.

The entry file is parsed, module declarations are walked into a tree for
the selected target, and 'fn main' in the root module is executed.

With no argument the enclosing package of the working directory runs;
a package directory or a bare .lum file may be given instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(firstArg(args), false)
	if err != nil {
		return err
	}

	maxDepth := 0
	if cfg != nil {
		maxDepth = cfg.Run.MaxCallDepth
	}

	it := interp.New(ws.Tree, interp.Options{
		Out:      os.Stdout,
		MaxDepth: maxDepth,
		Logger:   logger,
	})
	if err := it.Run(); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}
