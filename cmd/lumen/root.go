// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lumen.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/internal/config"
	"github.com/lumenlang/lumen/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// targetFlag selects the platform family to build for
	targetFlag string
	// featureFlags lists feature names to enable
	featureFlags []string
	// chdir switches to a package directory before doing anything else
	chdir string

	// cfg is the loaded configuration, populated by initRootConfig.
	cfg *config.Config

	// logger writes structured diagnostics; discarded unless verbose.
	logger = log.New(io.Discard)

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "lumen",
		Short: "A small language with a real module system",
		Long: TitleStyle.Render("lumen") + SubtitleStyle.Render(" - A small language with a real module system") + `

lumen runs programs written in .lum files. A program is a tree of
modules: files and directories map onto the tree, 'pub' controls what
crosses module boundaries, and paths like crate::a::b name things
anywhere in the tree.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'lumen init' to scaffold a package
  2. Edit src/main.lum
  3. Run it with: lumen run

` + SubtitleStyle.Render("Examples:") + `
  lumen run                 Run the package in the current directory
  lumen check               Type-check every path without running
  lumen graph               Print the module tree
  lumen explain crate::a::b Show how a path resolves
  lumen init                Create a new package`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lumen/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&targetFlag, "target", "t", "", "platform family to build for (unix, windows; default is the host)")
	rootCmd.PersistentFlags().StringSliceVarP(&featureFlags, "feature", "F", nil, "feature name to enable (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&chdir, "directory", "C", "", "run as if started in this directory")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		printIssue(err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and ENV variables if set.
func initRootConfig() {
	if chdir != "" {
		if err := os.Chdir(chdir); err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
			os.Exit(1)
		}
	}

	loaded, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Config problems must never hide the command output; warn and
		// continue on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		if verbose {
			if page, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("auto"); renderErr == nil {
				fmt.Fprint(os.Stderr, page)
			}
		}
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: false,
			Level:           log.DebugLevel,
		})
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
