// Modifier add command for the prep CLI.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

var (
	modifierAddPrice      int64
	modifierAddDefault    bool
	modifierAddIngredient string
	modifierAddPrinter    string
	modifierAddPre        string
	modifierAddExtraPrice int64
)

var modifierAddCmd = &cobra.Command{
	Use:   "add <group-id> <name>",
	Short: "Add a modifier to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, name := args[0], args[1]

		pre, err := parsePreModifiers(modifierAddPre, modifierAddExtraPrice)
		if err != nil {
			return err
		}

		var added *types.Modifier
		err = runSession(func(ctx context.Context, r *garnishsync.Reconciler) error {
			m, err := r.AddModifier(ctx, groupID, &types.Modifier{
				Name:           name,
				Kind:           types.KindItem,
				PriceCents:     modifierAddPrice,
				IsDefault:      modifierAddDefault,
				IngredientID:   modifierAddIngredient,
				PrinterRouting: modifierAddPrinter,
				PreModifiers:   pre,
			})
			if err != nil {
				return err
			}
			added = m
			return nil
		})
		if err != nil {
			fail("modifier add", err)
		}

		fmt.Println("added modifier", added.ModifierID)
		return nil
	},
}

// parsePreModifiers builds the pre-modifier options from a comma-separated
// allow list, e.g. "no,lite,on-side,extra".
func parsePreModifiers(allow string, extraPriceCents int64) (types.PreModifiers, error) {
	var pre types.PreModifiers
	if allow == "" {
		return pre, nil
	}
	for _, raw := range strings.Split(allow, ",") {
		switch strings.TrimSpace(strings.ToLower(raw)) {
		case "no":
			pre.No.Allowed = true
		case "lite":
			pre.Lite.Allowed = true
		case "on-side", "onside":
			pre.OnSide.Allowed = true
		case "extra":
			pre.Extra.Allowed = true
			pre.Extra.ExtraPriceCents = extraPriceCents
		default:
			return pre, fmt.Errorf("unknown pre-modifier %q (valid: no, lite, on-side, extra)", raw)
		}
	}
	return pre, nil
}

func init() {
	modifierAddCmd.Flags().Int64Var(&modifierAddPrice, "price", 0, "base price in cents")
	modifierAddCmd.Flags().BoolVar(&modifierAddDefault, "default", false, "pre-select this modifier")
	modifierAddCmd.Flags().StringVar(&modifierAddIngredient, "ingredient", "", "linked inventory ingredient id")
	modifierAddCmd.Flags().StringVar(&modifierAddPrinter, "printer", "", "kitchen printer routing")
	modifierAddCmd.Flags().StringVar(&modifierAddPre, "allow-pre", "", "comma-separated pre-modifiers to allow (no, lite, on-side, extra)")
	modifierAddCmd.Flags().Int64Var(&modifierAddExtraPrice, "extra-price", 0, "surcharge in cents for the extra pre-modifier")
}
