// Package demo defines the sample sandwich menu that `prep init --demo`
// seeds into a fresh store. Both backends seed from the same definition.
package demo

import "github.com/platewise/garnish/pkg/types"

// Group describes one demo group and where it nests.
type Group struct {
	Group *types.ModifierGroup
	// ParentGroup/ParentModifier name the modifier the group nests under;
	// empty means top-level. Groups are listed parents-first.
	ParentGroup    string
	ParentModifier string
}

// Menu returns a fresh copy of the demo forest. Callers may mutate the
// result freely.
func Menu() []Group {
	out := make([]Group, len(menu))
	for i, d := range menu {
		out[i] = Group{
			Group:          d.Group.Clone(),
			ParentGroup:    d.ParentGroup,
			ParentModifier: d.ParentModifier,
		}
	}
	return out
}

// Ingredients returns the demo ingredient lookup table.
func Ingredients() map[string]string {
	out := make(map[string]string, len(ingredients))
	for id, name := range ingredients {
		out[id] = name
	}
	return out
}

var menu = []Group{
	{
		Group: &types.ModifierGroup{
			Name: "Bread", MinSelections: 1, MaxSelections: 1, IsRequired: true,
			Modifiers: []*types.Modifier{
				{Name: "White", Kind: types.KindItem, IsDefault: true},
				{Name: "Wheat", Kind: types.KindItem, SortOrder: 1},
				{Name: "Toasted", Kind: types.KindItem, SortOrder: 2},
			},
		},
	},
	{
		Group: &types.ModifierGroup{
			Name: "Toast Level", MaxSelections: 1,
			Modifiers: []*types.Modifier{
				{Name: "Light", Kind: types.KindItem},
				{Name: "Dark", Kind: types.KindItem, SortOrder: 1},
			},
		},
		ParentGroup:    "Bread",
		ParentModifier: "Toasted",
	},
	{
		Group: &types.ModifierGroup{
			Name: "Cheese", MaxSelections: 2, ExclusionKey: "dairy",
			Pricing: &types.TieredPricingConfig{
				Enabled: true,
				Modes:   types.PricingModes{FlatTiers: true},
				FlatTiers: &types.FlatTiersConfig{
					Tiers: []types.PriceTier{
						{UpTo: 1, PriceCents: 100},
						{UpTo: 3, PriceCents: 75},
					},
					OverflowPriceCents: 50,
				},
			},
			Modifiers: []*types.Modifier{
				{Name: "Cheddar", Kind: types.KindItem, IsDefault: true, PriceCents: 100},
				{Name: "Swiss", Kind: types.KindItem, PriceCents: 100, SortOrder: 1},
				{Name: "Provolone", Kind: types.KindItem, PriceCents: 125, SortOrder: 2},
			},
		},
	},
	{
		Group: &types.ModifierGroup{
			Name: "Toppings",
			Pricing: &types.TieredPricingConfig{
				Enabled:       true,
				Modes:         types.PricingModes{FreeThreshold: true},
				FreeThreshold: &types.FreeThresholdConfig{FreeCount: 3},
			},
			Modifiers: []*types.Modifier{
				{Name: "Lettuce", Kind: types.KindItem},
				{Name: "Tomato", Kind: types.KindItem, SortOrder: 1},
				{Name: "Onion", Kind: types.KindItem, SortOrder: 2},
				{Name: "Avocado", Kind: types.KindItem, PriceCents: 200, SortOrder: 3},
			},
		},
	},
}

var ingredients = map[string]string{
	"ing-cheddar": "Cheddar Block",
	"ing-avocado": "Hass Avocado",
}
