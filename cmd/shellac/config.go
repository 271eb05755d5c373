// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shellac-cli/internal/config"
	"shellac-cli/internal/issue"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shellac configuration",
	Long: `Manage shellac configuration.

Configuration is stored in:
  - Linux: ~/.config/shellac/config.cue
  - macOS: ~/Library/Application Support/shellac/config.cue
  - Windows: %APPDATA%\shellac\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfigPath()
	},
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Output raw configuration as CUE",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Print(config.GenerateCUE(cfg))
		return nil
	},
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		if card, cardErr := issue.Get(issue.ConfigLoadFailedId); cardErr == nil {
			fmt.Fprint(os.Stderr, card)
		}
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgPath, pathErr := config.ConfigFilePath()
	if pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	contextsDir, dirErr := config.ContextsDir(cfg)
	if dirErr == nil {
		fmt.Printf("%s: %s\n", CmdStyle.Render("store_dir"), SuccessStyle.Render(contextsDir))
	}
	shell := cfg.Shell
	if shell == "" {
		shell = "(from $SHELL)"
	}
	fmt.Printf("%s: %s\n", CmdStyle.Render("shell"), SuccessStyle.Render(shell))
	fmt.Printf("%s: %s\n", CmdStyle.Render("container_engine"), SuccessStyle.Render(string(cfg.ContainerEngine)))

	fmt.Println()
	fmt.Printf("%s:\n", CmdStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", SuccessStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", cfgPath)

	if contextsDir, dirErr := config.ContextsDir(config.Get()); dirErr == nil {
		fmt.Printf("Contexts directory: %s\n", contextsDir)
	}
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configDumpCmd)
}
