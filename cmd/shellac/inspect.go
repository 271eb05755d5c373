// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"shellac-cli/internal/compose"
	"shellac-cli/internal/engine"
	"shellac-cli/pkg/ctxfile"
)

var inspectNamespace string

var inspectCmd = &cobra.Command{
	Use:   "inspect [NAME]",
	Short: "Show a context and the command it would compose",
	Long: `Render a context: its identity, the log of steps that built it, and
the composed command with a placeholder in the leaf position. Without
NAME the active context is shown; with NAME a saved context is loaded
from the store. Nothing is executed.`,
	Example: `  shellac inspect
  shellac inspect build
  shellac inspect ci::build`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		var c *ctxfile.Context
		if len(args) == 0 {
			c = eng.Active()
		} else {
			namespace, name := parseIdentity(args[0], inspectNamespace)
			c, err = eng.Store.Load(namespace, name)
			if err != nil {
				return err
			}
		}

		return renderContext(cmd.OutOrStdout(), cmd.ErrOrStderr(), eng, c)
	},
}

// renderContext writes the identity, the step log and the composed plan.
func renderContext(out, errOut io.Writer, eng *engine.Engine, c *ctxfile.Context) error {
	fmt.Fprintln(out, TitleStyle.Render("# name: "+c.Identity()))
	for _, entry := range c.Meta.StepLog {
		if entry.Prompt != "" {
			fmt.Fprintln(out, CmdStyle.Render("# $ "+entry.Prompt))
		}
		fmt.Fprintln(out, SubtitleStyle.Render("# ! "+entry.Description))
	}

	plan, err := eng.PlanFor(c, compose.PlaceholderLeaf)
	if err != nil {
		return err
	}
	if _, err := syntax.NewParser().Parse(strings.NewReader(plan), ""); err != nil {
		fmt.Fprintln(errOut, WarningStyle.Render("Warning: ")+"composed command does not parse as POSIX sh: "+err.Error())
	}
	fmt.Fprintln(out, plan)
	return nil
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectNamespace, "namespace", "n", "", "namespace of the saved context")
}
