// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shellac-cli/internal/issue"
)

var issueCmd = &cobra.Command{
	Use:   "issue [ID]",
	Short: "Show troubleshooting notes for a known issue",
	Long: `Show a troubleshooting card for a known failure class. Without ID,
lists the available cards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), TitleStyle.Render("Known issues:"))
			for _, id := range issue.Values() {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+CmdStyle.Render(string(id)))
			}
			return nil
		}

		card, err := issue.Get(issue.Id(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), card)
		return nil
	},
}
