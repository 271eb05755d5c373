// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shellac-cli/pkg/ctxfile"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print a one-line summary of the active context for PS1 embedding",
	Long: `Print "(name)" for the active context, followed by the prompt tag of
each step when the context has unsaved modifications. Intended for
shell prompt integration:

  PS1='$(shellac prompt) \$ '`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		c := eng.Active()
		var b strings.Builder
		b.WriteString("(")
		b.WriteString(CmdStyle.Render(c.Identity()))
		b.WriteString(")")
		if c.Meta.Dirty {
			for _, entry := range c.Meta.StepLog {
				if entry.Prompt == "" {
					continue
				}
				b.WriteString(" ")
				b.WriteString(VerboseStyle.Render(ctxfile.SanitizePrompt(entry.Prompt)))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), b.String())
		return nil
	},
}
