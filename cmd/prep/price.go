// Price command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platewise/garnish/internal/pricing"
	garnishsync "github.com/platewise/garnish/internal/sync"
)

var priceCount int

var priceCmd = &cobra.Command{
	Use:   "price <group-id>",
	Short: "Quote the price of N selections from a group",
	Long: `Compute what --count selections from the group would cost under its
pricing config. Base prices come from the group's first --count modifiers
in sort order; with tiered pricing enabled the config overrides them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			g, err := r.Forest().Group(groupID)
			if err != nil {
				return err
			}
			if priceCount < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			if g.MaxSelections > 0 && priceCount > g.MaxSelections {
				fmt.Printf("note: %d exceeds the group's max of %d selections\n",
					priceCount, g.MaxSelections)
			}

			base := make([]int64, 0, priceCount)
			for i := 0; i < priceCount; i++ {
				if i < len(g.Modifiers) {
					base = append(base, g.Modifiers[i].PriceCents)
				} else {
					base = append(base, 0)
				}
			}

			total := pricing.ComputePrice(priceCount, base, g.Pricing)
			fmt.Printf("%d selection(s) from %q: %s\n", priceCount, g.Name, centsToDollars(total))
			return nil
		})
		if err != nil {
			fail("price", err)
		}
		return nil
	},
}

func init() {
	priceCmd.Flags().IntVar(&priceCount, "count", 1, "number of selections to quote")
}
