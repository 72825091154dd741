package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/garnish/pkg/types"
)

func TestCreateGroup(t *testing.T) {
	s := newFixture(t)

	g, err := s.CreateGroup(&types.ModifierGroup{Name: "Sauces", MaxSelections: 3}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, g.GroupID)
	assert.Equal(t, 2, g.SortOrder)
	assert.Len(t, s.TopLevel(), 3)

	_, err = s.CreateGroup(&types.ModifierGroup{}, "")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = s.CreateGroup(&types.ModifierGroup{Name: "Bad Bounds", MinSelections: 3, MaxSelections: 1}, "")
	assert.ErrorIs(t, err, types.ErrInvalidBounds)
}

func TestCreateGroupUnderModifier(t *testing.T) {
	s := newFixture(t)

	g, err := s.CreateGroup(&types.ModifierGroup{Name: "Swiss Style", MaxSelections: 1}, "m-swiss")
	require.NoError(t, err)

	m, _, err := s.Modifier("m-swiss")
	require.NoError(t, err)
	assert.True(t, m.IsChoice())
	assert.Equal(t, g.GroupID, m.ChildGroupID)
	ownerMod, nested := s.OwnerModifier(g.GroupID)
	require.True(t, nested)
	assert.Equal(t, "m-swiss", ownerMod)

	// m-toasted already owns g-toast; the caller must detach first.
	_, err = s.CreateGroup(&types.ModifierGroup{Name: "Another"}, "m-toasted")
	assert.ErrorIs(t, err, types.ErrChildOccupied)

	_, err = s.CreateGroup(&types.ModifierGroup{Name: "Orphan"}, "m-missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddModifierRejectsDuplicateName(t *testing.T) {
	s := newFixture(t)

	_, err := s.AddModifier("g-cheese", &types.Modifier{Name: "Swiss"})
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	// The same name is fine in a different group.
	_, err = s.AddModifier("g-toast", &types.Modifier{Name: "Swiss"})
	require.NoError(t, err)
}

func TestReparentGroupPromoteToTopLevel(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.ReparentGroup("g-toast", ""))

	top := s.TopLevel()
	require.Len(t, top, 3)
	assert.Equal(t, "g-toast", top[2].GroupID)
	assert.Equal(t, 2, top[2].SortOrder)

	// The former owner reverts to a plain item.
	m, _, err := s.Modifier("m-toasted")
	require.NoError(t, err)
	assert.False(t, m.IsChoice())
	assert.Empty(t, m.ChildGroupID)
}

func TestReparentGroupAttach(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.ReparentGroup("g-cheese", "m-light"))

	m, _, err := s.Modifier("m-light")
	require.NoError(t, err)
	assert.Equal(t, "g-cheese", m.ChildGroupID)
	assert.Len(t, s.TopLevel(), 1)
	assert.True(t, s.IsDescendantOf("g-bread", "g-cheese"))
}

func TestReparentGroupRejectsCycle(t *testing.T) {
	s := newFixture(t)

	// g-bread under a modifier of its own descendant g-toast.
	err := s.ReparentGroup("g-bread", "m-light")
	assert.ErrorIs(t, err, types.ErrCycle)

	// Degenerate case: a group under one of its own modifiers.
	err = s.ReparentGroup("g-bread", "m-white")
	assert.ErrorIs(t, err, types.ErrCycle)

	// A rejected reparent leaves the forest untouched.
	assert.Len(t, s.TopLevel(), 2)
	assert.True(t, s.IsDescendantOf("g-bread", "g-toast"))
}

func TestReparentGroupRejectsOccupiedModifier(t *testing.T) {
	s := newFixture(t)

	err := s.ReparentGroup("g-cheese", "m-toasted")
	assert.ErrorIs(t, err, types.ErrChildOccupied)
}

func TestNestGroupInGroup(t *testing.T) {
	s := newFixture(t)

	wrapper, err := s.NestGroupInGroup("g-cheese", "g-bread")
	require.NoError(t, err)

	// Wrapper modifier named from the dragged group, price zero.
	assert.Equal(t, "Cheese", wrapper.Name)
	assert.Zero(t, wrapper.PriceCents)
	assert.Equal(t, "g-cheese", wrapper.ChildGroupID)

	gid, ok := s.ContainingGroup(wrapper.ModifierID)
	require.True(t, ok)
	assert.Equal(t, "g-bread", gid)
	assert.Len(t, s.TopLevel(), 1)
}

func TestNestGroupInGroupRejectsCycle(t *testing.T) {
	s := newFixture(t)

	_, err := s.NestGroupInGroup("g-bread", "g-toast")
	assert.ErrorIs(t, err, types.ErrCycle)

	// Nesting into itself is the reflexive cycle.
	_, err = s.NestGroupInGroup("g-cheese", "g-cheese")
	assert.ErrorIs(t, err, types.ErrCycle)

	// No wrapper modifier may be left behind by a rejected nest.
	g, err := s.Group("g-toast")
	require.NoError(t, err)
	assert.Len(t, g.Modifiers, 2)
}

func TestDropGroupOnModifierReplacesChild(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.DropGroupOnModifier("g-cheese", "m-toasted"))

	// The dragged group took the slot; the previous child was promoted.
	m, _, err := s.Modifier("m-toasted")
	require.NoError(t, err)
	assert.Equal(t, "g-cheese", m.ChildGroupID)

	top := s.TopLevel()
	require.Len(t, top, 2)
	assert.Equal(t, "g-bread", top[0].GroupID)
	assert.Equal(t, "g-toast", top[1].GroupID)
}

func TestDropGroupOnModifierRejectsCycleBeforePromoting(t *testing.T) {
	s := newFixture(t)

	err := s.DropGroupOnModifier("g-bread", "m-toasted")
	assert.ErrorIs(t, err, types.ErrCycle)

	// The existing child must not have been promoted by the rejected drop.
	ownerMod, nested := s.OwnerModifier("g-toast")
	require.True(t, nested)
	assert.Equal(t, "m-toasted", ownerMod)
}

func TestDropGroupOnPlainModifier(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.DropGroupOnModifier("g-cheese", "m-wheat"))
	m, _, err := s.Modifier("m-wheat")
	require.NoError(t, err)
	assert.Equal(t, "g-cheese", m.ChildGroupID)
}

func TestDuplicateGroupTopLevel(t *testing.T) {
	s := newFixture(t)

	sourceIDs := subtreeIDs(s, "g-bread")
	dup, err := s.DuplicateGroup("g-bread", "")
	require.NoError(t, err)

	// Identical values at every corresponding node.
	assert.Equal(t, "Choose Bread", dup.Name)
	assert.Equal(t, 1, dup.MaxSelections)
	require.Len(t, dup.Modifiers, 3)
	assert.Equal(t, "White", dup.Modifiers[0].Name)
	assert.True(t, dup.Modifiers[2].IsChoice())

	dupChild, err := s.Group(dup.Modifiers[2].ChildGroupID)
	require.NoError(t, err)
	assert.Equal(t, "Toast Level", dupChild.Name)
	require.Len(t, dupChild.Modifiers, 2)
	assert.Equal(t, "Dark", dupChild.Modifiers[1].Name)

	// Fresh ids disjoint from the entire source subtree.
	for id := range subtreeIDs(s, dup.GroupID) {
		assert.NotContains(t, sourceIDs, id)
	}

	// A top-level source duplicates to top-level.
	top := s.TopLevel()
	require.Len(t, top, 3)
	assert.Equal(t, dup.GroupID, top[2].GroupID)
}

func TestDuplicateNestedGroupStaysNested(t *testing.T) {
	s := newFixture(t)

	dup, err := s.DuplicateGroup("g-toast", "")
	require.NoError(t, err)

	// Re-nested beside the source via a wrapper modifier in g-bread, not
	// silently promoted to top-level.
	ownerMod, nested := s.OwnerModifier(dup.GroupID)
	require.True(t, nested)
	gid, ok := s.ContainingGroup(ownerMod)
	require.True(t, ok)
	assert.Equal(t, "g-bread", gid)
	assert.Len(t, s.TopLevel(), 2)

	wrapper, _, err := s.Modifier(ownerMod)
	require.NoError(t, err)
	assert.Equal(t, "Toast Level", wrapper.Name)
	assert.Zero(t, wrapper.PriceCents)
}

func TestDuplicateGroupIntoExplicitTarget(t *testing.T) {
	s := newFixture(t)

	dup, err := s.DuplicateGroup("g-toast", "g-cheese")
	require.NoError(t, err)

	ownerMod, nested := s.OwnerModifier(dup.GroupID)
	require.True(t, nested)
	gid, ok := s.ContainingGroup(ownerMod)
	require.True(t, ok)
	assert.Equal(t, "g-cheese", gid)
}

func TestPreviewDelete(t *testing.T) {
	s := newFixture(t)

	// g-bread plus its nested g-toast: 2 groups, 3+2 modifiers.
	preview, err := s.PreviewDelete("g-bread")
	require.NoError(t, err)
	assert.Equal(t, types.DeletePreview{GroupCount: 2, ModifierCount: 5, GroupName: "Choose Bread"}, preview)

	preview, err = s.PreviewDelete("g-cheese")
	require.NoError(t, err)
	assert.Equal(t, types.DeletePreview{GroupCount: 1, ModifierCount: 2, GroupName: "Cheese"}, preview)

	// Read-only: nothing changed.
	assert.Equal(t, 3, s.GroupCount())

	_, err = s.PreviewDelete("g-missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteGroupCascades(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.DeleteGroup("g-bread"))

	assert.Equal(t, 1, s.GroupCount())
	_, err := s.Group("g-toast")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, _, err = s.Modifier("m-light")
	assert.ErrorIs(t, err, types.ErrNotFound)

	top := s.TopLevel()
	require.Len(t, top, 1)
	assert.Equal(t, 0, top[0].SortOrder)
}

func TestDeleteNestedGroupRevertsOwner(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.DeleteGroup("g-toast"))

	m, _, err := s.Modifier("m-toasted")
	require.NoError(t, err)
	assert.False(t, m.IsChoice())
	assert.Equal(t, 2, s.GroupCount())
}

func TestDeleteModifierPromotesChild(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.DeleteModifier("m-toasted"))

	_, _, err := s.Modifier("m-toasted")
	assert.ErrorIs(t, err, types.ErrNotFound)
	// The child group survives at top level.
	top := s.TopLevel()
	require.Len(t, top, 3)
	assert.Equal(t, "g-toast", top[2].GroupID)

	// Remaining modifiers renumbered densely.
	g, err := s.Group("g-bread")
	require.NoError(t, err)
	require.Len(t, g.Modifiers, 2)
	assert.Equal(t, 0, g.Modifiers[0].SortOrder)
	assert.Equal(t, 1, g.Modifiers[1].SortOrder)
}

func TestReorderGroups(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.ReorderGroups([]string{"g-cheese", "g-bread"}))

	top := s.TopLevel()
	assert.Equal(t, "g-cheese", top[0].GroupID)
	assert.Equal(t, 0, top[0].SortOrder)
	assert.Equal(t, "g-bread", top[1].GroupID)
	assert.Equal(t, 1, top[1].SortOrder)

	// Reordering never changes parentage: nested ids are not valid input.
	err := s.ReorderGroups([]string{"g-cheese", "g-toast"})
	assert.ErrorIs(t, err, types.ErrReorderMismatch)
	err = s.ReorderGroups([]string{"g-cheese"})
	assert.ErrorIs(t, err, types.ErrReorderMismatch)
}

func TestReorderModifiers(t *testing.T) {
	s := newFixture(t)

	require.NoError(t, s.ReorderModifiers("g-bread", []string{"m-toasted", "m-white", "m-wheat"}))

	g, err := s.Group("g-bread")
	require.NoError(t, err)
	assert.Equal(t, "m-toasted", g.Modifiers[0].ModifierID)
	assert.Equal(t, 0, g.Modifiers[0].SortOrder)
	assert.Equal(t, "m-wheat", g.Modifiers[2].ModifierID)
	assert.Equal(t, 2, g.Modifiers[2].SortOrder)

	err = s.ReorderModifiers("g-bread", []string{"m-white", "m-wheat", "m-cheddar"})
	assert.ErrorIs(t, err, types.ErrReorderMismatch)
}

func TestForestInvariantUnderAcceptedMutations(t *testing.T) {
	s := newFixture(t)

	// A sequence of individually accepted reparent/nest calls keeps the
	// structure a forest: reflexive descendant relation everywhere and no
	// group reachable from two distinct roots.
	require.NoError(t, s.ReparentGroup("g-toast", ""))
	_, err := s.NestGroupInGroup("g-toast", "g-cheese")
	require.NoError(t, err)
	require.NoError(t, s.ReparentGroup("g-cheese", "m-wheat"))

	seen := make(map[string]int)
	for _, root := range s.TopLevel() {
		s.walk([]string{root.GroupID}, func(g *types.ModifierGroup) bool {
			seen[g.GroupID]++
			return true
		})
	}
	assert.Len(t, seen, s.GroupCount())
	for id, n := range seen {
		assert.Equal(t, 1, n, "group %s reachable from %d roots", id, n)
		assert.True(t, s.IsDescendantOf(id, id))
	}
}

func TestSetPricing(t *testing.T) {
	s := newFixture(t)

	cfg := &types.TieredPricingConfig{
		Enabled: true,
		Modes:   types.PricingModes{FlatTiers: true},
		FlatTiers: &types.FlatTiersConfig{
			Tiers:              []types.PriceTier{{UpTo: 3, PriceCents: 100}},
			OverflowPriceCents: 50,
		},
	}
	require.NoError(t, s.SetPricing("g-cheese", cfg))

	g, err := s.Group("g-cheese")
	require.NoError(t, err)
	require.NotNil(t, g.Pricing)
	assert.True(t, g.Pricing.Enabled)

	// The store keeps its own copy.
	cfg.FlatTiers.OverflowPriceCents = 999
	assert.Equal(t, int64(50), g.Pricing.FlatTiers.OverflowPriceCents)

	err = s.SetPricing("g-cheese", &types.TieredPricingConfig{
		Enabled: true,
		Modes:   types.PricingModes{FlatTiers: true},
	})
	assert.ErrorIs(t, err, types.ErrInvalidPricing)

	require.NoError(t, s.SetPricing("g-cheese", nil))
	g, err = s.Group("g-cheese")
	require.NoError(t, err)
	assert.Nil(t, g.Pricing)
}

// subtreeIDs collects every group and modifier id reachable from the group.
func subtreeIDs(s *Store, groupID string) map[string]bool {
	ids := make(map[string]bool)
	s.walk([]string{groupID}, func(g *types.ModifierGroup) bool {
		ids[g.GroupID] = true
		for _, m := range g.Modifiers {
			ids[m.ModifierID] = true
		}
		return true
	})
	return ids
}
