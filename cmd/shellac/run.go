// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"shellac-cli/internal/engine"
)

var runShow bool

var runCmd = &cobra.Command{
	Use:   "run [--show] -- CMD [ARGS...]",
	Short: "Run a command inside the active context",
	Long: `Compose the active context around CMD and execute the result through
the shell. With --show the composed command is printed instead of
executed, byte for byte what would run.

The command's exit code is propagated verbatim.`,
	Example: `  shellac run -- ./app --port 8080
  shellac run --show -- ./app`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		err = eng.Run(cmd.Context(), args, runShow)
		var child *engine.ChildExitError
		if errors.As(err, &child) {
			// The child already wrote its own output; exit silently.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: child.Code}
		}
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&runShow, "show", false, "print the composed command instead of executing it")
}
