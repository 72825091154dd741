// Group create command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

var (
	groupCreateMin           int
	groupCreateMax           int
	groupCreateRequired      bool
	groupCreateStacking      bool
	groupCreateDisplayName   string
	groupCreateExclusionKey  string
	groupCreateUnderModifier string
)

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a modifier group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		// All flags travel with the create itself; a follow-up patch would
		// race the canonical id the store has not assigned yet.
		spec := &types.ModifierGroup{
			Name:          name,
			DisplayName:   groupCreateDisplayName,
			MinSelections: groupCreateMin,
			MaxSelections: groupCreateMax,
			IsRequired:    groupCreateRequired,
			AllowStacking: groupCreateStacking,
			ExclusionKey:  groupCreateExclusionKey,
		}

		var created *types.ModifierGroup
		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			g, err := r.CreateGroup(ctx, spec, groupCreateUnderModifier)
			if err != nil {
				return err
			}
			created = g
			return nil
		})
		if err != nil {
			fail("group create", err)
		}

		// The canonical id was merged into the struct during the wait.
		fmt.Println("created group", created.GroupID)
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().IntVar(&groupCreateMin, "min", 0, "minimum selections")
	groupCreateCmd.Flags().IntVar(&groupCreateMax, "max", 0, "maximum selections (0 = unlimited)")
	groupCreateCmd.Flags().BoolVar(&groupCreateRequired, "required", false, "require a selection")
	groupCreateCmd.Flags().BoolVar(&groupCreateStacking, "stacking", false, "allow stacking the same modifier")
	groupCreateCmd.Flags().StringVar(&groupCreateDisplayName, "display-name", "", "customer-facing display name")
	groupCreateCmd.Flags().StringVar(&groupCreateExclusionKey, "exclusion-key", "", "cross-group exclusion key")
	groupCreateCmd.Flags().StringVar(&groupCreateUnderModifier, "under-modifier", "", "nest the new group under this modifier id")
}
