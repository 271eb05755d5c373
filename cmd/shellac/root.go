// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for shellac.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shellac-cli/internal/config"
	"shellac-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "shellac",
		Short: "Compose shell command contexts, then run anything inside them",
		Long: TitleStyle.Render("shellac") + SubtitleStyle.Render(" - Compose shell command contexts, then run anything inside them") + `

shellac builds up a per-terminal execution context from small steps
(commands, environment variables, working directories, containers,
extensions) and composes them into a single shell invocation around
whatever command you run.

Contexts can be saved under a namespace, inspected without running
anything, and restored in another terminal session.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Add steps: shellac with env FOO bar
  2. Run inside the context: shellac run -- ./app
  3. Save it for later: shellac save myctx

` + SubtitleStyle.Render("Examples:") + `
  shellac with command -- make       Prefix every run with 'make'
  shellac with docker ubuntu:24.04   Run inside a container
  shellac run --show -- ./app        Print the composed command
  shellac inspect                    Show the active context
  shellac save build --namespace ci  Save under ci::build`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/shellac/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(withCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(issueCmd)
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
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Config problems should never block context queries from the prompt
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
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

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
