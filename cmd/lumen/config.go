// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumenlang/lumen/internal/config"
)

// configCmd manages the user configuration file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lumen configuration",
	Long: `Manage lumen configuration.

Configuration is stored in:
  - Linux: ~/.config/lumen/config.cue
  - macOS: ~/Library/Application Support/lumen/config.cue
  - Windows: %APPDATA%\lumen\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig() error {
	c := cfg
	if c == nil {
		c = config.DefaultConfig()
	}
	fmt.Print(config.GenerateCUE(c))
	return nil
}

func initConfig() error {
	if err := config.CreateDefaultConfig(); err != nil {
		return err
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	fmt.Printf("%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
