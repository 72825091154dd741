package tree

import (
	"fmt"

	"github.com/platewise/garnish/pkg/types"
)

// CreateGroup adds a copy of the given group under a provisional id,
// carrying every field the caller set. When parentModifierID is non-empty
// the group becomes that modifier's child group; this fails with
// ErrChildOccupied if the modifier already owns one (callers must detach
// first). Otherwise the group is appended to the top level.
func (s *Store) CreateGroup(spec *types.ModifierGroup, parentModifierID string) (*types.ModifierGroup, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	g := spec.Clone()
	g.GroupID = id
	for _, m := range g.Modifiers {
		if m.ModifierID == "" {
			mid, err := newID()
			if err != nil {
				return nil, err
			}
			m.ModifierID = mid
		}
		if m.Kind == "" {
			m.Kind = types.KindItem
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if parentModifierID != "" {
		parent, _, err := s.Modifier(parentModifierID)
		if err != nil {
			return nil, err
		}
		if parent.IsChoice() {
			return nil, types.ErrChildOccupied
		}
		s.groups[id] = g
		for _, m := range g.Modifiers {
			s.modGroup[m.ModifierID] = id
		}
		s.attachChild(g.GroupID, parent)
		return g, nil
	}

	g.SortOrder = len(s.topLevel)
	s.groups[id] = g
	for _, m := range g.Modifiers {
		s.modGroup[m.ModifierID] = id
	}
	s.topLevel = append(s.topLevel, id)
	return g, nil
}

// AddModifier appends a new item modifier to the group. An empty ModifierID
// is filled with a provisional id.
func (s *Store) AddModifier(groupID string, m *types.Modifier) (*types.Modifier, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return nil, err
	}
	if m.ModifierID == "" {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		m.ModifierID = id
	}
	if m.Kind == "" {
		m.Kind = types.KindItem
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, taken := s.modGroup[m.ModifierID]; taken {
		return nil, fmt.Errorf("%w: modifier id %s already in use", types.ErrConflict, m.ModifierID)
	}
	for _, sib := range g.Modifiers {
		if sib.Name == m.Name {
			return nil, fmt.Errorf("%s in group %s: %w", m.Name, g.Name, types.ErrDuplicateName)
		}
	}
	m.SortOrder = len(g.Modifiers)
	g.Modifiers = append(g.Modifiers, m)
	s.modGroup[m.ModifierID] = g.GroupID
	return m, nil
}

// DeleteModifier removes a single modifier from its group. Deleting a
// choice modifier promotes its child group to top-level rather than
// cascading.
func (s *Store) DeleteModifier(modifierID string) error {
	m, g, err := s.Modifier(modifierID)
	if err != nil {
		return err
	}
	if m.IsChoice() {
		if err := s.ReparentGroup(m.ChildGroupID, ""); err != nil {
			return err
		}
	}
	for i, cur := range g.Modifiers {
		if cur.ModifierID == modifierID {
			g.Modifiers = append(g.Modifiers[:i], g.Modifiers[i+1:]...)
			break
		}
	}
	for i, cur := range g.Modifiers {
		cur.SortOrder = i
	}
	delete(s.modGroup, modifierID)
	return nil
}

// ReparentGroup detaches the group from its current owner and, when
// targetParentModifierID is non-empty, attaches it as that modifier's child
// group. The move is rejected with ErrCycle when the target modifier's
// owning group is the moved group itself or any of its descendants; a group
// can never become nested under one of its own descendants. Promoting to
// top-level (empty target) always succeeds structurally.
func (s *Store) ReparentGroup(groupID, targetParentModifierID string) error {
	if _, err := s.Group(groupID); err != nil {
		return err
	}

	if targetParentModifierID == "" {
		s.detach(groupID)
		s.groups[groupID].SortOrder = len(s.topLevel)
		s.topLevel = append(s.topLevel, groupID)
		return nil
	}

	target, owningGroup, err := s.Modifier(targetParentModifierID)
	if err != nil {
		return err
	}
	if target.IsChoice() && target.ChildGroupID != groupID {
		return types.ErrChildOccupied
	}
	if s.IsDescendantOf(groupID, owningGroup.GroupID) {
		return fmt.Errorf("cannot nest %s under its descendant %s: %w",
			groupID, owningGroup.GroupID, types.ErrCycle)
	}

	s.detach(groupID)
	s.attachChild(groupID, target)
	return nil
}

// NestGroupInGroup creates a wrapper modifier inside targetGroupID (named
// from the dragged group, price zero) and reparents the dragged group under
// it. Rejected with ErrCycle when the target group is the dragged group or
// one of its descendants. Returns the wrapper modifier.
func (s *Store) NestGroupInGroup(draggedGroupID, targetGroupID string) (*types.Modifier, error) {
	dragged, err := s.Group(draggedGroupID)
	if err != nil {
		return nil, err
	}
	target, err := s.Group(targetGroupID)
	if err != nil {
		return nil, err
	}
	if s.IsDescendantOf(draggedGroupID, targetGroupID) {
		return nil, fmt.Errorf("cannot nest %s inside its descendant %s: %w",
			draggedGroupID, targetGroupID, types.ErrCycle)
	}

	wrapper, err := s.AddModifier(target.GroupID, &types.Modifier{
		Name: dragged.Name,
		Kind: types.KindItem,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ReparentGroup(draggedGroupID, wrapper.ModifierID); err != nil {
		return nil, err
	}
	return wrapper, nil
}

// DropGroupOnModifier reparents the dragged group onto the target modifier.
// If the target already owns a child group, that child is first promoted to
// top-level. The caller is responsible for obtaining confirmation before
// this destructive replace; the operation is unconditional once invoked.
func (s *Store) DropGroupOnModifier(draggedGroupID, targetModifierID string) error {
	if _, err := s.Group(draggedGroupID); err != nil {
		return err
	}
	target, owningGroup, err := s.Modifier(targetModifierID)
	if err != nil {
		return err
	}
	// Veto the cycle before touching the existing child, so a rejected drop
	// leaves no partial state behind.
	if s.IsDescendantOf(draggedGroupID, owningGroup.GroupID) {
		return fmt.Errorf("cannot drop %s onto a modifier inside its subtree: %w",
			draggedGroupID, types.ErrCycle)
	}

	if target.IsChoice() && target.ChildGroupID != draggedGroupID {
		if err := s.ReparentGroup(target.ChildGroupID, ""); err != nil {
			return err
		}
	}
	return s.ReparentGroup(draggedGroupID, targetModifierID)
}

// DuplicateGroup deep-copies the group and its entire reachable subtree
// with fresh provisional ids, preserving structure, names, prices, and
// configs. A nested source with no explicit target is re-nested under a new
// wrapper modifier inside the same parent group as the source, so
// duplicating a child group does not silently promote it to top-level. With
// targetParentGroupID given, the duplicate is nested there instead via the
// same wrapper mechanism.
func (s *Store) DuplicateGroup(groupID, targetParentGroupID string) (*types.ModifierGroup, error) {
	src, err := s.Group(groupID)
	if err != nil {
		return nil, err
	}

	parentGroupID := targetParentGroupID
	if parentGroupID == "" {
		if ownerMod, nested := s.owner[groupID]; nested {
			parentGroupID, _ = s.ContainingGroup(ownerMod)
		}
	}
	if parentGroupID != "" {
		if _, err := s.Group(parentGroupID); err != nil {
			return nil, err
		}
	}

	dup, err := s.duplicateSubtree(src)
	if err != nil {
		return nil, err
	}

	if parentGroupID == "" {
		dup.SortOrder = len(s.topLevel)
		s.topLevel = append(s.topLevel, dup.GroupID)
		return dup, nil
	}

	wrapper, err := s.AddModifier(parentGroupID, &types.Modifier{
		Name: dup.Name,
		Kind: types.KindItem,
	})
	if err != nil {
		return nil, err
	}
	s.attachChild(dup.GroupID, wrapper)
	return dup, nil
}

// duplicateSubtree clones the group, its modifiers, and recursively every
// reachable child group, registering everything under fresh ids. The
// returned root is not attached to any owner.
func (s *Store) duplicateSubtree(src *types.ModifierGroup) (*types.ModifierGroup, error) {
	dup := src.Clone()
	id, err := newID()
	if err != nil {
		return nil, err
	}
	dup.GroupID = id
	s.groups[id] = dup

	for _, m := range dup.Modifiers {
		modID, err := newID()
		if err != nil {
			return nil, err
		}
		m.ModifierID = modID
		s.modGroup[modID] = dup.GroupID

		if m.IsChoice() {
			child, ok := s.groups[m.ChildGroupID]
			if !ok {
				return nil, fmt.Errorf("group %s: %w", m.ChildGroupID, types.ErrNotFound)
			}
			childDup, err := s.duplicateSubtree(child)
			if err != nil {
				return nil, err
			}
			m.ChildGroupID = childDup.GroupID
			s.owner[childDup.GroupID] = m.ModifierID
		}
	}
	return dup, nil
}

// PreviewDelete counts the group itself plus every group and modifier in
// its reachable subtree, without mutating anything.
func (s *Store) PreviewDelete(groupID string) (types.DeletePreview, error) {
	root, err := s.Group(groupID)
	if err != nil {
		return types.DeletePreview{}, err
	}
	preview := types.DeletePreview{GroupName: root.Name}
	s.walk([]string{groupID}, func(g *types.ModifierGroup) bool {
		preview.GroupCount++
		preview.ModifierCount += len(g.Modifiers)
		return true
	})
	return preview, nil
}

// DeleteGroup removes the group and, recursively, every nested child group
// and all modifiers in the subtree. The owning modifier of a nested group
// reverts to a plain item.
func (s *Store) DeleteGroup(groupID string) error {
	if _, err := s.Group(groupID); err != nil {
		return err
	}

	var doomed []*types.ModifierGroup
	s.walk([]string{groupID}, func(g *types.ModifierGroup) bool {
		doomed = append(doomed, g)
		return true
	})

	s.detach(groupID)
	for _, g := range doomed {
		for _, m := range g.Modifiers {
			delete(s.modGroup, m.ModifierID)
		}
		delete(s.owner, g.GroupID)
		delete(s.groups, g.GroupID)
	}
	return nil
}

// ReorderGroups reassigns dense 0-based sort orders to the top-level groups
// to match the given order. The id list must be exactly the current
// top-level set; reordering never changes parentage.
func (s *Store) ReorderGroups(orderedTopLevelIDs []string) error {
	if err := samePermutation(orderedTopLevelIDs, s.topLevel); err != nil {
		return err
	}
	s.topLevel = append([]string(nil), orderedTopLevelIDs...)
	s.renumberTopLevel()
	return nil
}

// ReorderModifiers reassigns dense 0-based sort orders to one group's
// modifiers to match the given order. The id list must be exactly the
// group's current modifier set.
func (s *Store) ReorderModifiers(groupID string, orderedModifierIDs []string) error {
	g, err := s.Group(groupID)
	if err != nil {
		return err
	}
	current := make([]string, len(g.Modifiers))
	byID := make(map[string]*types.Modifier, len(g.Modifiers))
	for i, m := range g.Modifiers {
		current[i] = m.ModifierID
		byID[m.ModifierID] = m
	}
	if err := samePermutation(orderedModifierIDs, current); err != nil {
		return err
	}

	reordered := make([]*types.Modifier, len(orderedModifierIDs))
	for i, id := range orderedModifierIDs {
		reordered[i] = byID[id]
		reordered[i].SortOrder = i
	}
	g.Modifiers = reordered
	return nil
}

// SetPricing replaces the group's tiered-pricing configuration after
// validating it. A nil config clears tiered pricing for the group.
func (s *Store) SetPricing(groupID string, cfg *types.TieredPricingConfig) error {
	g, err := s.Group(groupID)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.Pricing = cfg.Clone()
	return nil
}

// detach removes the group from its current owner: the owning choice
// modifier reverts to a plain item, or the top-level list is compacted.
// A group that is attached nowhere is left untouched.
func (s *Store) detach(groupID string) {
	if modID, nested := s.owner[groupID]; nested {
		delete(s.owner, groupID)
		if m, _, err := s.Modifier(modID); err == nil {
			m.Kind = types.KindItem
			m.ChildGroupID = ""
		}
		return
	}
	for i, id := range s.topLevel {
		if id == groupID {
			s.topLevel = append(s.topLevel[:i], s.topLevel[i+1:]...)
			s.renumberTopLevel()
			return
		}
	}
}

// attachChild makes the group the child of the given modifier, turning the
// modifier into a choice.
func (s *Store) attachChild(groupID string, parent *types.Modifier) {
	parent.Kind = types.KindChoice
	parent.ChildGroupID = groupID
	s.owner[groupID] = parent.ModifierID
}

// samePermutation verifies that got is a permutation of want.
func samePermutation(got, want []string) error {
	if len(got) != len(want) {
		return types.ErrReorderMismatch
	}
	seen := make(map[string]bool, len(want))
	for _, id := range want {
		seen[id] = true
	}
	for _, id := range got {
		if !seen[id] {
			return types.ErrReorderMismatch
		}
		delete(seen, id)
	}
	return nil
}
