// Pricing command for the prep CLI.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

var (
	pricingFlatTiers string
	pricingOverflow  int64
	pricingFreeCount int
	pricingDisable   bool
)

var pricingCmd = &cobra.Command{
	Use:   "pricing <group-id>",
	Short: "Configure tiered pricing for a group",
	Long: `Set a group's tiered pricing. Flat tiers price each selection by the
cumulative count, e.g. --flat-tiers "1:100,3:75" --overflow 50 charges
100 cents for the first selection, 75 for the second and third, and 50
beyond. --free-count N makes the first N selections free. When both modes
are set, flat tiers win. --disable turns tiered pricing off.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]

		cfg, err := buildPricingConfig()
		if err != nil {
			return err
		}

		err = runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.SetPricing(ctx, groupID, cfg)
		})
		if err != nil {
			fail("pricing", err)
		}

		if pricingDisable {
			fmt.Println("disabled tiered pricing on", groupID)
		} else {
			fmt.Println("updated pricing on", groupID)
		}
		return nil
	},
}

// buildPricingConfig assembles the config from the command flags.
func buildPricingConfig() (*types.TieredPricingConfig, error) {
	if pricingDisable {
		return &types.TieredPricingConfig{}, nil
	}

	cfg := &types.TieredPricingConfig{Enabled: true}
	if pricingFlatTiers != "" {
		tiers, err := parseFlatTiers(pricingFlatTiers)
		if err != nil {
			return nil, err
		}
		cfg.Modes.FlatTiers = true
		cfg.FlatTiers = &types.FlatTiersConfig{
			Tiers:              tiers,
			OverflowPriceCents: pricingOverflow,
		}
	}
	if pricingFreeCount > 0 {
		cfg.Modes.FreeThreshold = true
		cfg.FreeThreshold = &types.FreeThresholdConfig{FreeCount: pricingFreeCount}
	}
	if !cfg.Modes.FlatTiers && !cfg.Modes.FreeThreshold {
		return nil, fmt.Errorf("pricing needs --flat-tiers, --free-count, or --disable")
	}
	return cfg, nil
}

// parseFlatTiers parses "upTo:cents,upTo:cents" tier lists.
func parseFlatTiers(spec string) ([]types.PriceTier, error) {
	var tiers []types.PriceTier
	for _, part := range strings.Split(spec, ",") {
		upTo, cents, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			return nil, fmt.Errorf("tier %q must be upTo:cents", part)
		}
		u, err := strconv.Atoi(upTo)
		if err != nil {
			return nil, fmt.Errorf("tier %q: bad count: %w", part, err)
		}
		c, err := strconv.ParseInt(cents, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tier %q: bad price: %w", part, err)
		}
		tiers = append(tiers, types.PriceTier{UpTo: u, PriceCents: c})
	}
	return tiers, nil
}

func init() {
	pricingCmd.Flags().StringVar(&pricingFlatTiers, "flat-tiers", "", `cumulative tiers as "upTo:cents,..."`)
	pricingCmd.Flags().Int64Var(&pricingOverflow, "overflow", 0, "price in cents past the last tier")
	pricingCmd.Flags().IntVar(&pricingFreeCount, "free-count", 0, "number of free selections")
	pricingCmd.Flags().BoolVar(&pricingDisable, "disable", false, "turn tiered pricing off")
}
