// Group move command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
)

var (
	groupMoveUnderModifier string
	groupMoveIntoGroup     string
	groupMoveOnModifier    string
	groupMoveTopLevel      bool
)

var groupMoveCmd = &cobra.Command{
	Use:   "move <group-id>",
	Short: "Reparent, nest, or promote a group",
	Long: `Move a modifier group within the forest.

  --under-modifier attaches the group to an unoccupied modifier.
  --into-group wraps the group in a new modifier inside the target group.
  --on-modifier replaces the target modifier's child group, promoting the
    previous child to top-level.
  --top-level detaches the group from its owner.

Moves that would put a group inside its own subtree are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		modes := 0
		for _, set := range []bool{
			groupMoveUnderModifier != "",
			groupMoveIntoGroup != "",
			groupMoveOnModifier != "",
			groupMoveTopLevel,
		} {
			if set {
				modes++
			}
		}
		if modes != 1 {
			return fmt.Errorf("exactly one of --under-modifier, --into-group, --on-modifier, --top-level is required")
		}

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			switch {
			case groupMoveUnderModifier != "":
				return r.ReparentGroup(ctx, groupID, groupMoveUnderModifier)
			case groupMoveIntoGroup != "":
				_, err := r.NestGroupInGroup(ctx, groupID, groupMoveIntoGroup)
				return err
			case groupMoveOnModifier != "":
				return r.DropGroupOnModifier(ctx, groupID, groupMoveOnModifier)
			default:
				return r.ReparentGroup(ctx, groupID, "")
			}
		})
		if err != nil {
			fail("group move", err)
		}

		fmt.Println("moved group", groupID)
		return nil
	},
}

func init() {
	groupMoveCmd.Flags().StringVar(&groupMoveUnderModifier, "under-modifier", "", "attach to this unoccupied modifier id")
	groupMoveCmd.Flags().StringVar(&groupMoveIntoGroup, "into-group", "", "nest inside this group via a new wrapper modifier")
	groupMoveCmd.Flags().StringVar(&groupMoveOnModifier, "on-modifier", "", "replace this modifier's child group")
	groupMoveCmd.Flags().BoolVar(&groupMoveTopLevel, "top-level", false, "promote to top-level")
}
