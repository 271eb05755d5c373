// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var withCmd = &cobra.Command{
	Use:   "with",
	Short: "Append a step to the active context",
	Long: `Append a step to this terminal's active context.

Steps accumulate: command steps run before the final command, while
environment, workdir, path and container steps wrap around it in the
order they were added (first added is outermost).`,
}

var withCommandCmd = &cobra.Command{
	Use:   "command -- CMD [ARGS...]",
	Short: "Prefix runs with a command",
	Example: `  shellac with command -- make
  shellac with command -- go generate ./...`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithCommand(strings.Join(args, " "))
	},
}

var withEnvCmd = &cobra.Command{
	Use:   "env KEY VALUE",
	Short: "Export an environment variable around runs",
	Example: `  shellac with env FOO bar
  shellac with env RUST_LOG=debug`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := "", ""
		switch len(args) {
		case 1:
			var ok bool
			key, value, ok = strings.Cut(args[0], "=")
			if !ok {
				return fmt.Errorf("expected KEY VALUE or KEY=VALUE, got %q", args[0])
			}
		case 2:
			key, value = args[0], args[1]
		}
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithEnv(key, value)
	},
}

var withWorkdirCmd = &cobra.Command{
	Use:     "workdir PATH",
	Short:   "Change into a directory around runs",
	Example: `  shellac with workdir /tmp/scratch`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithWorkdir(args[0])
	},
}

var withPathCmd = &cobra.Command{
	Use:     "path DIR",
	Short:   "Append a directory to PATH around runs",
	Example: `  shellac with path ./node_modules/.bin`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithPath(args[0])
	},
}

var withDockerCmd = &cobra.Command{
	Use:     "docker IMAGE",
	Short:   "Run inside a container image",
	Example: `  shellac with docker ubuntu:24.04`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithContainer(args[0])
	},
}

var withExtCmd = &cobra.Command{
	Use:   "ext -- PROGRAM [ARGS...]",
	Short: "Transform the context through an external program",
	Long: `Run an external program that receives the active context as JSON and
replies with a transformed context on stdout.

The context is piped to the program's stdin, unless an argument is
exactly "{}", in which case it is replaced with the path of a temp
file holding the context. On any failure the active context is left
unchanged.`,
	Example: `  shellac with ext -- shellac-ext-agent
  shellac with ext -- my-tool --context {}`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithExtension(cmd.Context(), args[0], args[1:])
	},
}

var withContextCmd = &cobra.Command{
	Use:   "context NAME",
	Short: "Replace the active context with a saved one",
	Example: `  shellac with context build
  shellac with context ci::build
  shellac with context build --namespace ci`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace, name := parseIdentity(args[0], withContextNamespace)
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithContext(namespace, name)
	},
}

var withEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Reset the active context to a blank one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return eng.WithEmpty()
	},
}

var withContextNamespace string

func init() {
	withContextCmd.Flags().StringVarP(&withContextNamespace, "namespace", "n", "", "namespace of the saved context")

	withCmd.AddCommand(withCommandCmd)
	withCmd.AddCommand(withEnvCmd)
	withCmd.AddCommand(withWorkdirCmd)
	withCmd.AddCommand(withPathCmd)
	withCmd.AddCommand(withDockerCmd)
	withCmd.AddCommand(withExtCmd)
	withCmd.AddCommand(withContextCmd)
	withCmd.AddCommand(withEmptyCmd)
}
