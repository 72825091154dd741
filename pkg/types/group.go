package types

// ModifierGroup is a named, ordered set of modifiers with selection-count
// constraints. A group is either top-level (owned by the menu item) or
// nested (owned by exactly one choice modifier via that modifier's
// ChildGroupID). MaxSelections of zero means unlimited.
type ModifierGroup struct {
	GroupID       string               `json:"group_id"`
	Name          string               `json:"name"`
	DisplayName   string               `json:"display_name,omitempty"`
	MinSelections int                  `json:"min_selections"`
	MaxSelections int                  `json:"max_selections"`
	IsRequired    bool                 `json:"is_required"`
	AllowStacking bool                 `json:"allow_stacking"`
	Pricing       *TieredPricingConfig `json:"pricing,omitempty"`
	ExclusionKey  string               `json:"exclusion_key,omitempty"`
	SortOrder     int                  `json:"sort_order"`
	Modifiers     []*Modifier          `json:"modifiers"`
}

// Validate checks the group's own fields and every contained modifier.
func (g *ModifierGroup) Validate() error {
	if g.Name == "" {
		return ErrInvalidName
	}
	if g.MinSelections < 0 || g.MaxSelections < 0 {
		return ErrInvalidBounds
	}
	if g.MaxSelections > 0 && g.MinSelections > g.MaxSelections {
		return ErrInvalidBounds
	}
	if g.Pricing != nil {
		if err := g.Pricing.Validate(); err != nil {
			return err
		}
	}
	for _, m := range g.Modifiers {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Modifier returns the contained modifier with the given id, or nil.
func (g *ModifierGroup) Modifier(id string) *Modifier {
	for _, m := range g.Modifiers {
		if m.ModifierID == id {
			return m
		}
	}
	return nil
}

// Defaults returns the modifiers currently flagged as default, in list order.
func (g *ModifierGroup) Defaults() []*Modifier {
	var out []*Modifier
	for _, m := range g.Modifiers {
		if m.IsDefault {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy of the group, its modifiers, and its pricing
// config. Child groups are referenced by id only and are not followed.
func (g *ModifierGroup) Clone() *ModifierGroup {
	c := *g
	c.Pricing = g.Pricing.Clone()
	c.Modifiers = make([]*Modifier, len(g.Modifiers))
	for i, m := range g.Modifiers {
		c.Modifiers[i] = m.Clone()
	}
	return &c
}
