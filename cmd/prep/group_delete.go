// Group delete command for the prep CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var (
	groupDeleteYes    bool
	groupDeleteDryRun bool
)

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group and its whole nested subtree",
	Long: `Delete a modifier group. The delete cascades through every nested
child group and all modifiers in the subtree. The command always prints
what would be removed; pass --yes to actually delete, or --dry-run to
only preview.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			preview, err := r.PreviewDelete(groupID)
			if err != nil {
				return err
			}
			fmt.Printf("deleting %q removes %d group(s) and %d modifier(s)\n",
				preview.GroupName, preview.GroupCount, preview.ModifierCount)

			if groupDeleteDryRun {
				return nil
			}
			if !groupDeleteYes {
				fmt.Fprintln(os.Stderr, "pass --yes to confirm the cascade delete")
				os.Exit(exitUserError)
			}
			return r.DeleteGroup(ctx, groupID)
		})
		if err != nil {
			fail("group delete", err)
		}
		return nil
	},
}

func init() {
	groupDeleteCmd.Flags().BoolVar(&groupDeleteYes, "yes", false, "confirm the cascade delete")
	groupDeleteCmd.Flags().BoolVar(&groupDeleteDryRun, "dry-run", false, "only preview what would be removed")
}
