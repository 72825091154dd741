// Modifier reorder command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var modifierReorderCmd = &cobra.Command{
	Use:   "reorder <group-id> <modifier-id>...",
	Short: "Reorder the modifiers of one group",
	Long: `Write a new modifier order for one group. The id list must name every
modifier of the group exactly once.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, order := args[0], args[1:]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.ReorderModifiers(ctx, groupID, order)
		})
		if err != nil {
			fail("modifier reorder", err)
		}

		fmt.Println("reordered", len(order), "modifiers in", groupID)
		return nil
	},
}
