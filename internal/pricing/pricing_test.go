package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/garnish/pkg/types"
)

func flatTiersConfig() *types.TieredPricingConfig {
	return &types.TieredPricingConfig{
		Enabled: true,
		Modes:   types.PricingModes{FlatTiers: true},
		FlatTiers: &types.FlatTiersConfig{
			Tiers:              []types.PriceTier{{UpTo: 3, PriceCents: 100}, {UpTo: 7, PriceCents: 75}},
			OverflowPriceCents: 50,
		},
	}
}

func freeThresholdConfig(freeCount int) *types.TieredPricingConfig {
	return &types.TieredPricingConfig{
		Enabled:       true,
		Modes:         types.PricingModes{FreeThreshold: true},
		FreeThreshold: &types.FreeThresholdConfig{FreeCount: freeCount},
	}
}

func cents(n int, each int64) []int64 {
	if n < 0 {
		n = 0
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = each
	}
	return out
}

func TestComputePriceDisabled(t *testing.T) {
	base := []int64{100, 125, 150}

	assert.Equal(t, int64(375), ComputePrice(3, base, nil))
	assert.Equal(t, int64(375), ComputePrice(3, base, &types.TieredPricingConfig{}))
	assert.Equal(t, int64(0), ComputePrice(0, base, nil))
}

func TestComputePriceFlatTiers(t *testing.T) {
	cfg := flatTiersConfig()
	tests := []struct {
		name  string
		count int
		want  int64
	}{
		// 3x1.00 + 4x0.75 + 3x0.50 = 7.50; tier two covers selections 4
		// through 7 (four units) because its ceiling is cumulative.
		{name: "spans all tiers into overflow", count: 10, want: 750},
		{name: "exactly first tier", count: 3, want: 300},
		{name: "inside first tier", count: 2, want: 200},
		{name: "into second tier", count: 5, want: 450},
		{name: "exactly last tier ceiling", count: 7, want: 600},
		{name: "zero selections", count: 0, want: 0},
		{name: "negative count", count: -2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Base prices are ignored in flat-tier mode.
			assert.Equal(t, tt.want, ComputePrice(tt.count, cents(tt.count, 999), cfg))
		})
	}
}

func TestComputePriceFreeThreshold(t *testing.T) {
	// First two free, remaining three at their own price: 3.00.
	got := ComputePrice(5, cents(5, 100), freeThresholdConfig(2))
	assert.Equal(t, int64(300), got)

	// Mixed base prices: the free allowance zeroes the first entries in
	// selection order.
	got = ComputePrice(4, []int64{200, 100, 150, 50}, freeThresholdConfig(1))
	assert.Equal(t, int64(300), got)

	// Allowance covering everything.
	assert.Equal(t, int64(0), ComputePrice(3, cents(3, 100), freeThresholdConfig(5)))
}

func TestComputePriceFlatTiersTakePrecedence(t *testing.T) {
	cfg := flatTiersConfig()
	cfg.Modes.FreeThreshold = true
	cfg.FreeThreshold = &types.FreeThresholdConfig{FreeCount: 100}

	// Both modes enabled: flat tiers win, the free allowance is ignored.
	assert.Equal(t, int64(300), ComputePrice(3, cents(3, 100), cfg))
}

func TestComputePriceEnabledWithoutModes(t *testing.T) {
	cfg := &types.TieredPricingConfig{Enabled: true}
	assert.Equal(t, int64(200), ComputePrice(2, cents(2, 100), cfg))
}

func TestPreModifierPrice(t *testing.T) {
	assert.Equal(t, int64(0), PreModifierPrice(types.PreModifierOption{ExtraPriceCents: 75}))
	assert.Equal(t, int64(75), PreModifierPrice(types.PreModifierOption{Allowed: true, ExtraPriceCents: 75}))
	assert.Equal(t, int64(-50), PreModifierPrice(types.PreModifierOption{Allowed: true, ExtraPriceCents: -50}))
}
