// Modifier update command for the prep CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

var (
	modifierUpdateName       string
	modifierUpdatePrice      int64
	modifierUpdateIngredient string
	modifierUpdatePrinter    string
	modifierUpdatePre        string
	modifierUpdateExtraPrice int64
)

var modifierUpdateCmd = &cobra.Command{
	Use:   "update <modifier-id>",
	Short: "Update a modifier's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modifierID := args[0]

		patch := types.ModifierPatch{}
		flags := cmd.Flags()
		if flags.Changed("name") {
			patch.Name = &modifierUpdateName
		}
		if flags.Changed("price") {
			patch.PriceCents = &modifierUpdatePrice
		}
		if flags.Changed("ingredient") {
			patch.IngredientID = &modifierUpdateIngredient
		}
		if flags.Changed("printer") {
			patch.PrinterRouting = &modifierUpdatePrinter
		}
		if flags.Changed("allow-pre") {
			pre, err := parsePreModifiers(modifierUpdatePre, modifierUpdateExtraPrice)
			if err != nil {
				return err
			}
			patch.PreModifiers = &pre
		}
		if patch == (types.ModifierPatch{}) {
			return fmt.Errorf("no fields to update; see --help for flags")
		}

		err := runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			return r.UpdateModifier(ctx, modifierID, patch)
		})
		if err != nil {
			fail("modifier update", err)
		}

		fmt.Println("updated modifier", modifierID)
		return nil
	},
}

func init() {
	modifierUpdateCmd.Flags().StringVar(&modifierUpdateName, "name", "", "modifier name")
	modifierUpdateCmd.Flags().Int64Var(&modifierUpdatePrice, "price", 0, "base price in cents")
	modifierUpdateCmd.Flags().StringVar(&modifierUpdateIngredient, "ingredient", "", "linked inventory ingredient id")
	modifierUpdateCmd.Flags().StringVar(&modifierUpdatePrinter, "printer", "", "kitchen printer routing")
	modifierUpdateCmd.Flags().StringVar(&modifierUpdatePre, "allow-pre", "", "comma-separated pre-modifiers to allow (no, lite, on-side, extra)")
	modifierUpdateCmd.Flags().Int64Var(&modifierUpdateExtraPrice, "extra-price", 0, "surcharge in cents for the extra pre-modifier")
}
