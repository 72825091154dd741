// Package pricing evaluates tiered-pricing configurations against a
// selection count. All functions are pure; prices are integer cents.
package pricing

import "github.com/platewise/garnish/pkg/types"

// ComputePrice returns the total price in cents for selectionCount
// selections with the given per-selection base prices, evaluated under the
// group's tiered-pricing config.
//
// With no config (nil or disabled) each selection costs its own base price.
// Flat tiers partition the count across cumulative bands: each tier's UpTo
// is a cumulative ceiling, so a tier covers UpTo minus the previous
// ceiling units; selections beyond the last tier cost the overflow price.
// Free threshold zeroes the first FreeCount selections in selection order.
// When both modes are enabled flat tiers take precedence; the combination
// has no agreed product meaning yet.
func ComputePrice(selectionCount int, baseUnitPriceCents []int64, cfg *types.TieredPricingConfig) int64 {
	if selectionCount <= 0 {
		return 0
	}
	if cfg == nil || !cfg.Enabled {
		return sumBase(selectionCount, baseUnitPriceCents, 0)
	}

	switch {
	case cfg.Modes.FlatTiers && cfg.FlatTiers != nil:
		return flatTiers(selectionCount, cfg.FlatTiers)
	case cfg.Modes.FreeThreshold && cfg.FreeThreshold != nil:
		return sumBase(selectionCount, baseUnitPriceCents, cfg.FreeThreshold.FreeCount)
	default:
		return sumBase(selectionCount, baseUnitPriceCents, 0)
	}
}

// flatTiers charges each tier's per-unit price for the selections it
// covers, then the overflow price for the remainder.
func flatTiers(count int, cfg *types.FlatTiersConfig) int64 {
	var total int64
	charged := 0
	for _, tier := range cfg.Tiers {
		if charged >= count {
			return total
		}
		ceiling := tier.UpTo
		if ceiling > count {
			ceiling = count
		}
		units := ceiling - charged
		if units <= 0 {
			continue
		}
		total += int64(units) * tier.PriceCents
		charged = ceiling
	}
	if count > charged {
		total += int64(count-charged) * cfg.OverflowPriceCents
	}
	return total
}

// sumBase sums the base prices of the selections past the first skip
// entries. The base list is indexed in selection order.
func sumBase(count int, baseUnitPriceCents []int64, skip int) int64 {
	var total int64
	for i := skip; i < count && i < len(baseUnitPriceCents); i++ {
		total += baseUnitPriceCents[i]
	}
	return total
}

// PreModifierPrice returns the price adjustment in cents for applying a
// pre-modifier toggle. A disallowed toggle contributes nothing; an allowed
// one contributes its configured extra price ("Extra" upcharges,
// "Lite"/"On Side" usually zero, "No" may carry a negative adjustment).
func PreModifierPrice(opt types.PreModifierOption) int64 {
	if !opt.Allowed {
		return 0
	}
	return opt.ExtraPriceCents
}
