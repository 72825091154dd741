package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/platewise/garnish/pkg/types"
)

// timestamp formats a row timestamp the way every table stores it.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// pricingToJSON serializes a pricing config column value; nil stays NULL.
func pricingToJSON(cfg *types.TieredPricingConfig) (any, error) {
	if cfg == nil {
		return nil, nil
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding pricing config: %w", err)
	}
	return string(raw), nil
}

func pricingFromJSON(col sql.NullString) (*types.TieredPricingConfig, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var cfg types.TieredPricingConfig
	if err := json.Unmarshal([]byte(col.String), &cfg); err != nil {
		return nil, fmt.Errorf("decoding pricing config: %w", err)
	}
	return &cfg, nil
}

func preModifiersToJSON(pm types.PreModifiers) (string, error) {
	raw, err := json.Marshal(pm)
	if err != nil {
		return "", fmt.Errorf("encoding pre-modifiers: %w", err)
	}
	return string(raw), nil
}

func preModifiersFromJSON(col sql.NullString) (types.PreModifiers, error) {
	var pm types.PreModifiers
	if !col.Valid || col.String == "" {
		return pm, nil
	}
	if err := json.Unmarshal([]byte(col.String), &pm); err != nil {
		return pm, fmt.Errorf("decoding pre-modifiers: %w", err)
	}
	return pm, nil
}

// placeholders returns "?, ?, ..." for an IN clause of n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// idArgs widens a string slice for variadic query arguments.
func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
