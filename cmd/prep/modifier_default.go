// Modifier default command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var modifierDefaultClear bool

var modifierDefaultCmd = &cobra.Command{
	Use:   "default <group-id> <modifier-id>",
	Short: "Toggle a modifier's default flag",
	Long: `Mark a modifier as pre-selected. Each group caps its defaults at its
maximum selections; when the cap is full the oldest default is evicted to
make room. --clear removes the flag instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, modifierID := args[0], args[1]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.SetDefault(ctx, groupID, modifierID, !modifierDefaultClear)
		})
		if err != nil {
			fail("modifier default", err)
		}

		if modifierDefaultClear {
			fmt.Println("cleared default on", modifierID)
		} else {
			fmt.Println("set default on", modifierID)
		}
		return nil
	},
}

func init() {
	modifierDefaultCmd.Flags().BoolVar(&modifierDefaultClear, "clear", false, "remove the default flag")
}
