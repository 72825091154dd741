// Group reorder command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var groupReorderCmd = &cobra.Command{
	Use:   "reorder <group-id>...",
	Short: "Reorder the top-level groups",
	Long: `Write a new top-level order. The argument list must name every
top-level group exactly once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.ReorderGroups(ctx, args)
		})
		if err != nil {
			fail("group reorder", err)
		}

		fmt.Println("reordered", len(args), "groups")
		return nil
	},
}
