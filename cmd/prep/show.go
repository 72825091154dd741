// Show command for the prep CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/internal/tree"
	"github.com/platewise/garnish/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the modifier forest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			if flagJSON {
				out, err := json.MarshalIndent(r.Forest().Groups(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			printForest(r.Forest())
			return nil
		})
		if err != nil {
			fail("show", err)
		}
		return nil
	},
}

// printForest renders the top-level groups and their nested subtrees.
func printForest(forest *tree.Store) {
	top := forest.TopLevel()
	if len(top) == 0 {
		fmt.Println("no modifier groups; run `prep init --demo` for a sample menu")
		return
	}
	for _, g := range top {
		printGroup(forest, g, 0)
	}
}

func printGroup(forest *tree.Store, g *types.ModifierGroup, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Printf("%s%s%s  [%s]  (%s)\n", pad, g.Name, displaySuffix(g), g.GroupID, constraintLabel(g))
	for _, m := range g.Modifiers {
		markers := ""
		if m.IsDefault {
			markers += "  (default)"
		}
		if m.PriceCents != 0 {
			markers += "  " + centsToDollars(m.PriceCents)
		}
		fmt.Printf("%s  - %s  [%s]%s\n", pad, m.Name, m.ModifierID, markers)
		if m.IsChoice() {
			if child, err := forest.Group(m.ChildGroupID); err == nil {
				printGroup(forest, child, depth+2)
			}
		}
	}
}

func displaySuffix(g *types.ModifierGroup) string {
	if g.DisplayName == "" || g.DisplayName == g.Name {
		return ""
	}
	return fmt.Sprintf(" (%q)", g.DisplayName)
}

// constraintLabel summarizes selection rules for one group.
func constraintLabel(g *types.ModifierGroup) string {
	parts := []string{fmt.Sprintf("min %d", g.MinSelections)}
	if g.MaxSelections == 0 {
		parts = append(parts, "max unlimited")
	} else {
		parts = append(parts, fmt.Sprintf("max %d", g.MaxSelections))
	}
	if g.IsRequired {
		parts = append(parts, "required")
	}
	if g.ExclusionKey != "" {
		parts = append(parts, "excl "+g.ExclusionKey)
	}
	if g.Pricing != nil && g.Pricing.Enabled {
		parts = append(parts, "tiered pricing")
	}
	return strings.Join(parts, ", ")
}
