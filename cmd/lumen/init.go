// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/pkg/manifest"
)

var initForce bool

// initCmd scaffolds a new package in the current directory.
var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new package in the current directory",
	Long: `Create a new package in the current directory.

This generates a lumen.toml manifest and a starter src/main.lum so the
package runs immediately.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
}

const starterMain = `/// Entry module.

fn main() {
    println("Hello from {}!", NAME);
}

const NAME: str = "lumen";
`

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	name := filepath.Base(cwd)
	if len(args) > 0 {
		name = args[0]
	}

	manifestPath := filepath.Join(cwd, manifest.FileName)
	if _, err := os.Stat(manifestPath); err == nil && !initForce {
		return fmt.Errorf("'%s' already exists. Use --force to overwrite", manifest.FileName)
	}

	manifestContent := fmt.Sprintf("[package]\nname = %q\n", name)
	if err := os.WriteFile(manifestPath, []byte(manifestContent), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	entryPath := filepath.Join(cwd, filepath.FromSlash(manifest.DefaultEntry))
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("failed to create src directory: %w", err)
	}
	if _, err := os.Stat(entryPath); err != nil || initForce {
		if err := os.WriteFile(entryPath, []byte(starterMain), 0o644); err != nil {
			return fmt.Errorf("failed to write entry file: %w", err)
		}
	}

	fmt.Printf("%s Created package %s\n", SuccessStyle.Render("✓"), PathStyle.Render(name))
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit src/main.lum")
	fmt.Println("  2. Run 'lumen run' to execute it")
	fmt.Println("  3. Run 'lumen graph' to see the module tree")

	return nil
}
