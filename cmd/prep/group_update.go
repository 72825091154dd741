// Group update command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

var (
	groupUpdateName         string
	groupUpdateDisplayName  string
	groupUpdateMin          int
	groupUpdateMax          int
	groupUpdateRequired     bool
	groupUpdateStacking     bool
	groupUpdateExclusionKey string
)

var groupUpdateCmd = &cobra.Command{
	Use:   "update <group-id>",
	Short: "Update a modifier group's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		patch := types.GroupPatch{}
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &groupUpdateName
		}
		if flags.Changed("display-name") {
			patch.DisplayName = &groupUpdateDisplayName
		}
		if flags.Changed("min") {
			patch.MinSelections = &groupUpdateMin
		}
		if flags.Changed("max") {
			patch.MaxSelections = &groupUpdateMax
		}
		if flags.Changed("required") {
			patch.IsRequired = &groupUpdateRequired
		}
		if flags.Changed("stacking") {
			patch.AllowStacking = &groupUpdateStacking
		}
		if flags.Changed("exclusion-key") {
			patch.ExclusionKey = &groupUpdateExclusionKey
		}
		if patch == (types.GroupPatch{}) {
			return fmt.Errorf("no fields to update; see --help for flags")
		}

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.UpdateGroup(ctx, groupID, patch)
		})
		if err != nil {
			fail("group update", err)
		}

		fmt.Println("updated group", groupID)
		return nil
	},
}

func init() {
	groupUpdateCmd.Flags().StringVar(&groupUpdateName, "name", "", "group name")
	groupUpdateCmd.Flags().StringVar(&groupUpdateDisplayName, "display-name", "", "customer-facing display name")
	groupUpdateCmd.Flags().IntVar(&groupUpdateMin, "min", 0, "minimum selections")
	groupUpdateCmd.Flags().IntVar(&groupUpdateMax, "max", 0, "maximum selections (0 = unlimited)")
	groupUpdateCmd.Flags().BoolVar(&groupUpdateRequired, "required", false, "require a selection")
	groupUpdateCmd.Flags().BoolVar(&groupUpdateStacking, "stacking", false, "allow stacking the same modifier")
	groupUpdateCmd.Flags().StringVar(&groupUpdateExclusionKey, "exclusion-key", "", "cross-group exclusion key")
}
