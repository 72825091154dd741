// Exclusions command for the prep CLI.
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platewise/garnish/internal/exclusion"
	garnishsync "github.com/platewise/garnish/internal/sync"
)

var exclusionsSelected []string

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions <group-id>",
	Short: "Show cross-group exclusions for a group",
	Long: `List the groups sharing this group's exclusion key. With --selected,
also report which of the group's modifiers those selections disable.
Selections are given as group-id:modifier-id pairs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		selections, err := parseSelections(exclusionsSelected)
		if err != nil {
			return err
		}

		err = runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			related, err := exclusion.RelatedGroups(r.Forest(), groupID)
			if err != nil {
				return err
			}
			if len(related) == 0 {
				fmt.Println("no related groups")
			} else {
				fmt.Println("related groups:")
				for _, g := range related {
					fmt.Printf("  %s  [%s]\n", g.Name, g.GroupID)
				}
			}

			if len(selections) == 0 {
				return nil
			}
			disabled, err := exclusion.DisabledModifierIDs(r.Forest(), groupID, selections, nil)
			if err != nil {
				return err
			}
			if len(disabled) == 0 {
				fmt.Println("no modifiers disabled by the given selections")
				return nil
			}
			ids := make([]string, 0, len(disabled))
			for id := range disabled {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			fmt.Println("disabled modifiers:")
			for _, id := range ids {
				fmt.Println(" ", id)
			}
			return nil
		})
		if err != nil {
			fail("exclusions", err)
		}
		return nil
	},
}

// parseSelections parses group-id:modifier-id pairs.
func parseSelections(raw []string) ([]exclusion.Selection, error) {
	var selections []exclusion.Selection
	for _, pair := range raw {
		groupID, modifierID, found := strings.Cut(pair, ":")
		if !found || groupID == "" || modifierID == "" {
			return nil, fmt.Errorf("selection %q must be group-id:modifier-id", pair)
		}
		selections = append(selections, exclusion.Selection{
			GroupID:    groupID,
			ModifierID: modifierID,
		})
	}
	return selections, nil
}

func init() {
	exclusionsCmd.Flags().StringArrayVar(&exclusionsSelected, "selected", nil, "active selection as group-id:modifier-id (repeatable)")
}
