// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveNamespace string

var saveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the active context under a name",
	Long: `Persist the active context to the store under NAME. The saved copy
stays active in this terminal and is marked clean until the next step
is added. NAME may carry an inline namespace as NS::NAME.`,
	Example: `  shellac save build
  shellac save build --namespace ci
  shellac save ci::build`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace, name := parseIdentity(args[0], saveNamespace)
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.Save(namespace, name); err != nil {
			return err
		}

		st := eng.Query()
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Saved context ")+CmdStyle.Render(st.Identity))
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVarP(&saveNamespace, "namespace", "n", "", "namespace to save under (default \"default\")")
}
