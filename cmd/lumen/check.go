// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkTest bool

// checkCmd resolves every path in the package without running anything.
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Resolve every path in the package without running it",
	Long: `Resolve every path in the package without running it.

Every 'use' declaration, call target, and println argument is resolved
against the module tree, and all failures are reported at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkTest, "test", false, "also mount #[cfg(test)] modules")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(firstArg(args), checkTest)
	if err != nil {
		return err
	}

	diags := ws.Tree.Check()
	if len(diags) == 0 {
		fmt.Printf("%s %s resolves cleanly (target %s)\n",
			SuccessStyle.Render("✓"),
			ws.Manifest.Package.Name,
			ws.Target.String())
		return nil
	}

	for _, d := range diags {
		fmt.Println(ErrorStyle.Render("error: ") + d.Error())
	}
	// One catalog page, for the first diagnostic; the rest repeat the
	// same handful of failure shapes.
	printIssue(diags[0])
	return &ExitError{
		Code: 1,
		Err:  fmt.Errorf("%d resolution error(s)", len(diags)),
	}
}
