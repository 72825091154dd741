package types

// PriceTier is one band of a flat-tier configuration. UpTo is a cumulative
// ceiling on the selection count, not an additional count: a tier covers the
// selections between the previous tier's ceiling and its own.
type PriceTier struct {
	UpTo       int   `json:"up_to"`
	PriceCents int64 `json:"price_cents"`
}

// FlatTiersConfig prices selections by cumulative count bands; selections
// beyond the last tier are charged OverflowPriceCents each.
type FlatTiersConfig struct {
	Tiers              []PriceTier `json:"tiers"`
	OverflowPriceCents int64       `json:"overflow_price_cents"`
}

// FreeThresholdConfig makes the first FreeCount selections free; selections
// beyond that cost their own base price.
type FreeThresholdConfig struct {
	FreeCount int `json:"free_count"`
}

// PricingModes selects which tiered-pricing evaluations are active.
type PricingModes struct {
	FlatTiers     bool `json:"flat_tiers"`
	FreeThreshold bool `json:"free_threshold"`
}

// TieredPricingConfig configures tiered pricing for one modifier group.
// When disabled, each selected modifier is charged its own price.
type TieredPricingConfig struct {
	Enabled       bool                 `json:"enabled"`
	Modes         PricingModes         `json:"modes"`
	FlatTiers     *FlatTiersConfig     `json:"flat_tiers,omitempty"`
	FreeThreshold *FreeThresholdConfig `json:"free_threshold,omitempty"`
}

// Validate checks internal consistency: an enabled mode must carry its
// config, tier ceilings must be strictly increasing, and prices and counts
// must be non-negative.
func (c *TieredPricingConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.Modes.FlatTiers {
		if c.FlatTiers == nil || len(c.FlatTiers.Tiers) == 0 {
			return ErrInvalidPricing
		}
		prev := 0
		for _, t := range c.FlatTiers.Tiers {
			if t.UpTo <= prev || t.PriceCents < 0 {
				return ErrInvalidPricing
			}
			prev = t.UpTo
		}
		if c.FlatTiers.OverflowPriceCents < 0 {
			return ErrInvalidPricing
		}
	}
	if c.Modes.FreeThreshold {
		if c.FreeThreshold == nil || c.FreeThreshold.FreeCount < 0 {
			return ErrInvalidPricing
		}
	}
	return nil
}

// Clone returns a deep copy. Cloning a nil config returns nil.
func (c *TieredPricingConfig) Clone() *TieredPricingConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.FlatTiers != nil {
		ft := *c.FlatTiers
		ft.Tiers = append([]PriceTier(nil), c.FlatTiers.Tiers...)
		out.FlatTiers = &ft
	}
	if c.FreeThreshold != nil {
		fc := *c.FreeThreshold
		out.FreeThreshold = &fc
	}
	return &out
}
