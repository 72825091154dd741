// Modifier delete command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var modifierDeleteCmd = &cobra.Command{
	Use:   "delete <modifier-id>",
	Short: "Delete a single modifier",
	Long: `Delete one modifier. Deleting a choice modifier promotes its child
group to top-level instead of cascading into it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modifierID := args[0]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.DeleteModifier(ctx, modifierID)
		})
		if err != nil {
			fail("modifier delete", err)
		}

		fmt.Println("deleted modifier", modifierID)
		return nil
	},
}
