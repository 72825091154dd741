package tree

import "github.com/platewise/garnish/pkg/types"

// SetDefault sets or clears a modifier's default flag while enforcing the
// group's selection cap: a group never carries more defaults than its
// MaxSelections. When setting would exceed the cap, the oldest existing
// defaults are evicted first — oldest meaning first encountered in the
// group's modifier list. A MaxSelections of zero means unlimited defaults
// and never evicts. Returns the ids of evicted modifiers so the caller can
// mirror the flag changes to the entity store.
func (s *Store) SetDefault(groupID, modifierID string, makeDefault bool) ([]string, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return nil, err
	}
	target := g.Modifier(modifierID)
	if target == nil {
		return nil, types.ErrNotFound
	}

	if !makeDefault {
		target.IsDefault = false
		return nil, nil
	}

	var evicted []string
	if g.MaxSelections > 0 {
		var current []*types.Modifier
		for _, m := range g.Modifiers {
			if m.IsDefault && m.ModifierID != modifierID {
				current = append(current, m)
			}
		}
		// Legacy data can hold more defaults than the cap allows; evict
		// enough to leave room for the new one.
		if len(current) >= g.MaxSelections {
			for _, m := range current[:len(current)-g.MaxSelections+1] {
				m.IsDefault = false
				evicted = append(evicted, m.ModifierID)
			}
		}
	}

	target.IsDefault = true
	return evicted, nil
}
