// Package exclusion computes cross-group mutual exclusion from a shared
// exclusion key. Groups sharing a non-empty key are "related": a choice
// committed in one of them suppresses the equivalent choices in the others.
// The engine exposes the relation and the current selection set; what makes
// two modifiers "the same choice" is a caller-supplied predicate.
package exclusion

import (
	"strings"

	"github.com/platewise/garnish/internal/tree"
	"github.com/platewise/garnish/pkg/types"
)

// Selection is one committed choice: a modifier selected within a group.
type Selection struct {
	GroupID    string
	ModifierID string
}

// MatchFunc decides whether two modifiers represent the same underlying
// choice. The engine deliberately does not hard-code this identity; see
// DefaultMatch for the heuristic the editor ships with.
type MatchFunc func(a, b *types.Modifier) bool

// DefaultMatch treats two modifiers as the same choice when both link the
// same ingredient, or — lacking ingredient links — when their names match
// case-insensitively. This mirrors the editor's historical behavior and is
// pending product confirmation.
func DefaultMatch(a, b *types.Modifier) bool {
	if a.IngredientID != "" && b.IngredientID != "" {
		return a.IngredientID == b.IngredientID
	}
	return strings.EqualFold(a.Name, b.Name)
}

// RelatedGroups returns all other groups in the item sharing the group's
// non-empty exclusion key. A group with no key has no relations.
func RelatedGroups(ts *tree.Store, groupID string) ([]*types.ModifierGroup, error) {
	g, err := ts.Group(groupID)
	if err != nil {
		return nil, err
	}
	if g.ExclusionKey == "" {
		return nil, nil
	}
	var related []*types.ModifierGroup
	for _, other := range ts.Groups() {
		if other.GroupID != g.GroupID && other.ExclusionKey == g.ExclusionKey {
			related = append(related, other)
		}
	}
	return related, nil
}

// DisabledModifierIDs returns the ids of modifiers in the given group that
// should be disabled because a matching choice is already committed in a
// related group. Selections in unrelated groups (or in the group itself)
// never disable anything.
func DisabledModifierIDs(ts *tree.Store, groupID string, selections []Selection, match MatchFunc) (map[string]bool, error) {
	if match == nil {
		match = DefaultMatch
	}
	g, err := ts.Group(groupID)
	if err != nil {
		return nil, err
	}
	related, err := RelatedGroups(ts, groupID)
	if err != nil {
		return nil, err
	}
	relatedIDs := make(map[string]bool, len(related))
	for _, r := range related {
		relatedIDs[r.GroupID] = true
	}

	disabled := make(map[string]bool)
	for _, sel := range selections {
		if !relatedIDs[sel.GroupID] {
			continue
		}
		selGroup, err := ts.Group(sel.GroupID)
		if err != nil {
			// Stale selection against a group that no longer exists.
			continue
		}
		committed := selGroup.Modifier(sel.ModifierID)
		if committed == nil {
			continue
		}
		for _, m := range g.Modifiers {
			if match(m, committed) {
				disabled[m.ModifierID] = true
			}
		}
	}
	return disabled, nil
}
