// Group duplicate command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var groupDuplicateInto string

var groupDuplicateCmd = &cobra.Command{
	Use:   "duplicate <group-id>",
	Short: "Deep-copy a group and its nested subtree",
	Long: `Copy a modifier group with all its modifiers and nested child groups
under fresh ids. By default the copy lands where the source lives; --into
places it inside another group instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			dup, err := r.DuplicateGroup(ctx, groupID, groupDuplicateInto)
			if err != nil {
				return err
			}
			fmt.Printf("duplicated %q\n", dup.Name)
			return nil
		})
		if err != nil {
			fail("group duplicate", err)
		}
		return nil
	},
}

func init() {
	groupDuplicateCmd.Flags().StringVar(&groupDuplicateInto, "into", "", "place the copy inside this group id")
}
