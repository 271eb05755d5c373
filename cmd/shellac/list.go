// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shellac-cli/pkg/ctxfile"
)

var listNamespace string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved contexts",
	Example: `  shellac list
  shellac list --namespace ci`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		refs, err := eng.Store.List(listNamespace)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("(no saved contexts)"))
			return nil
		}
		for _, ref := range refs {
			identity := ref.Name
			if ref.Namespace != ctxfile.DefaultNamespace {
				identity = ref.Namespace + "::" + ref.Name
			}
			fmt.Fprintln(cmd.OutOrStdout(), CmdStyle.Render(identity))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listNamespace, "namespace", "n", "", "only list contexts in this namespace")
}
