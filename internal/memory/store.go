// Package memory implements the entity store interface on plain in-memory
// maps. It backs tests and demo runs; the sqlite backend is the durable
// counterpart. The store is the id authority: every create assigns a
// canonical UUID v7, and structural operations enforce the same forest
// invariant the durable backend does.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/platewise/garnish/pkg/types"
)

var (
	_ types.Store              = (*Store)(nil)
	_ types.IngredientResolver = (*Store)(nil)
)

// Store is an in-memory entity store for one menu item's modifier forest.
type Store struct {
	mu          sync.RWMutex
	attached    bool
	groups      map[string]*types.ModifierGroup
	ingredients map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		groups:      make(map[string]*types.ModifierGroup),
		ingredients: make(map[string]string),
	}
}

// SeedGroups replaces the store contents with the given groups, keeping
// their ids. Intended for tests.
func (s *Store) SeedGroups(groups []*types.ModifierGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = make(map[string]*types.ModifierGroup, len(groups))
	for _, g := range groups {
		s.groups[g.GroupID] = g.Clone()
	}
}

// SeedIngredients merges the given ingredient names into the lookup table.
func (s *Store) SeedIngredients(names map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, name := range names {
		s.ingredients[id] = name
	}
}

// LoadGroups returns every group as a flat list ordered by sort order.
func (s *Store) LoadGroups(ctx context.Context) ([]*types.ModifierGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.ModifierGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}

// CreateGroup persists a new group under a canonical id. With a parent
// modifier given the group is attached as its child; contained modifiers
// get ids of their own.
func (s *Store) CreateGroup(ctx context.Context, g *types.ModifierGroup, parentModifierID string) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID()
	if err != nil {
		return "", err
	}
	stored := g.Clone()
	stored.GroupID = id
	for _, m := range stored.Modifiers {
		if m.ModifierID == "" {
			mid, err := newID()
			if err != nil {
				return "", err
			}
			m.ModifierID = mid
		}
	}

	if parentModifierID != "" {
		parent := s.findModifier(parentModifierID)
		if parent == nil {
			return "", fmt.Errorf("modifier %s: %w", parentModifierID, types.ErrNotFound)
		}
		if parent.IsChoice() {
			return "", types.ErrChildOccupied
		}
		parent.Kind = types.KindChoice
		parent.ChildGroupID = id
	} else {
		stored.SortOrder = s.topLevelCount()
	}
	s.groups[id] = stored
	return id, nil
}

// UpdateGroup applies a partial patch.
func (s *Store) UpdateGroup(ctx context.Context, id string, patch types.GroupPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return types.ErrInvalidName
		}
		g.Name = *patch.Name
	}
	if patch.DisplayName != nil {
		g.DisplayName = *patch.DisplayName
	}
	if patch.MinSelections != nil {
		g.MinSelections = *patch.MinSelections
	}
	if patch.MaxSelections != nil {
		g.MaxSelections = *patch.MaxSelections
	}
	if patch.IsRequired != nil {
		g.IsRequired = *patch.IsRequired
	}
	if patch.AllowStacking != nil {
		g.AllowStacking = *patch.AllowStacking
	}
	if patch.Pricing != nil {
		if err := patch.Pricing.Validate(); err != nil {
			return err
		}
		g.Pricing = patch.Pricing.Clone()
	}
	if patch.ExclusionKey != nil {
		g.ExclusionKey = *patch.ExclusionKey
	}
	if patch.SortOrder != nil {
		g.SortOrder = *patch.SortOrder
	}
	return nil
}

// DeleteGroup removes the group and its entire reachable subtree. The
// owning modifier, if any, reverts to a plain item.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	if owner := s.ownerModifier(id); owner != nil {
		owner.Kind = types.KindItem
		owner.ChildGroupID = ""
	}
	for _, doomed := range s.subtree(id) {
		delete(s.groups, doomed)
	}
	return nil
}

// PreviewDelete counts what DeleteGroup would remove.
func (s *Store) PreviewDelete(ctx context.Context, id string) (types.DeletePreview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.groups[id]
	if !ok {
		return types.DeletePreview{}, fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	preview := types.DeletePreview{GroupName: root.Name}
	for _, gid := range s.subtree(id) {
		preview.GroupCount++
		preview.ModifierCount += len(s.groups[gid].Modifiers)
	}
	return preview, nil
}

// CreateModifier appends a new modifier to the group under a canonical id.
func (s *Store) CreateModifier(ctx context.Context, groupID string, m *types.Modifier) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return "", fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	stored := m.Clone()
	stored.ModifierID = id
	if stored.Kind == "" {
		stored.Kind = types.KindItem
	}
	if err := stored.Validate(); err != nil {
		return "", err
	}
	for _, sib := range g.Modifiers {
		if sib.Name == stored.Name {
			return "", fmt.Errorf("%s in group %s: %w", stored.Name, g.Name, types.ErrDuplicateName)
		}
	}
	stored.SortOrder = len(g.Modifiers)
	g.Modifiers = append(g.Modifiers, stored)
	return id, nil
}

// UpdateModifier applies a partial patch.
func (s *Store) UpdateModifier(ctx context.Context, id string, patch types.ModifierPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findModifier(id)
	if m == nil {
		return fmt.Errorf("modifier %s: %w", id, types.ErrNotFound)
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return types.ErrInvalidName
		}
		if gid := s.groupOfModifier(id); gid != "" {
			for _, sib := range s.groups[gid].Modifiers {
				if sib.ModifierID != id && sib.Name == *patch.Name {
					return fmt.Errorf("%s: %w", *patch.Name, types.ErrDuplicateName)
				}
			}
		}
		m.Name = *patch.Name
	}
	if patch.PriceCents != nil {
		m.PriceCents = *patch.PriceCents
	}
	if patch.PreModifiers != nil {
		m.PreModifiers = *patch.PreModifiers
	}
	if patch.IsDefault != nil {
		m.IsDefault = *patch.IsDefault
	}
	if patch.IngredientID != nil {
		m.IngredientID = *patch.IngredientID
	}
	if patch.PrinterRouting != nil {
		m.PrinterRouting = *patch.PrinterRouting
	}
	if patch.SortOrder != nil {
		m.SortOrder = *patch.SortOrder
	}
	return nil
}

// DeleteModifier removes one modifier. A choice modifier's child group is
// promoted to top-level rather than cascading.
func (s *Store) DeleteModifier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		for i, m := range g.Modifiers {
			if m.ModifierID != id {
				continue
			}
			if m.IsChoice() {
				if child, ok := s.groups[m.ChildGroupID]; ok {
					child.SortOrder = s.topLevelCount()
				}
			}
			g.Modifiers = append(g.Modifiers[:i], g.Modifiers[i+1:]...)
			for j, rest := range g.Modifiers {
				rest.SortOrder = j
			}
			return nil
		}
	}
	return fmt.Errorf("modifier %s: %w", id, types.ErrNotFound)
}

// Reparent detaches the group from its current owner and attaches it to
// the target modifier, or promotes it to top-level on an empty target. The
// forest invariant is enforced here as well: the store is authoritative
// and must not accept a cycle from a confused client.
func (s *Store) Reparent(ctx context.Context, groupID, targetParentModifierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}

	if targetParentModifierID != "" {
		target := s.findModifier(targetParentModifierID)
		if target == nil {
			return fmt.Errorf("modifier %s: %w", targetParentModifierID, types.ErrNotFound)
		}
		if target.IsChoice() && target.ChildGroupID != groupID {
			return types.ErrChildOccupied
		}
		owningGroupID := s.groupOfModifier(targetParentModifierID)
		for _, sub := range s.subtree(groupID) {
			if sub == owningGroupID {
				return fmt.Errorf("cannot nest %s under its descendant: %w", groupID, types.ErrCycle)
			}
		}
		s.detachLocked(groupID)
		target.Kind = types.KindChoice
		target.ChildGroupID = groupID
		return nil
	}

	s.detachLocked(groupID)
	g.SortOrder = s.topLevelCount()
	return nil
}

// Duplicate deep-copies the group and its subtree under fresh ids. The
// copy is always created top-level; re-nesting is the caller's follow-up
// Reparent.
func (s *Store) Duplicate(ctx context.Context, fromGroupID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.groups[fromGroupID]
	if !ok {
		return "", fmt.Errorf("group %s: %w", fromGroupID, types.ErrNotFound)
	}
	dupID, err := s.duplicateLocked(src)
	if err != nil {
		return "", err
	}
	s.groups[dupID].SortOrder = s.topLevelCount() - 1
	return dupID, nil
}

// BulkReorder writes the given sort orders. Entries may address groups or
// modifiers; all entries of one call share a single parent scope.
func (s *Store) BulkReorder(ctx context.Context, entries []types.ReorderEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if g, ok := s.groups[e.ID]; ok {
			g.SortOrder = e.SortOrder
			continue
		}
		if m := s.findModifier(e.ID); m != nil {
			m.SortOrder = e.SortOrder
			continue
		}
		return fmt.Errorf("reorder target %s: %w", e.ID, types.ErrNotFound)
	}
	for _, g := range s.groups {
		sort.SliceStable(g.Modifiers, func(i, j int) bool {
			return g.Modifiers[i].SortOrder < g.Modifiers[j].SortOrder
		})
	}
	return nil
}

// IngredientName resolves a display label for an ingredient link.
func (s *Store) IngredientName(ctx context.Context, ingredientID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.ingredients[ingredientID]
	if !ok {
		return "", fmt.Errorf("ingredient %s: %w", ingredientID, types.ErrNotFound)
	}
	return name, nil
}

// duplicateLocked clones a group subtree under fresh ids and registers the
// clones. Caller holds the lock.
func (s *Store) duplicateLocked(src *types.ModifierGroup) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	dup := src.Clone()
	dup.GroupID = id
	for _, m := range dup.Modifiers {
		mid, err := newID()
		if err != nil {
			return "", err
		}
		m.ModifierID = mid
		if m.IsChoice() {
			child, ok := s.groups[m.ChildGroupID]
			if !ok {
				return "", fmt.Errorf("group %s: %w", m.ChildGroupID, types.ErrNotFound)
			}
			childID, err := s.duplicateLocked(child)
			if err != nil {
				return "", err
			}
			m.ChildGroupID = childID
		}
	}
	s.groups[id] = dup
	return id, nil
}

// detachLocked reverts the owning modifier of a nested group to a plain
// item. Caller holds the lock.
func (s *Store) detachLocked(groupID string) {
	if owner := s.ownerModifier(groupID); owner != nil {
		owner.Kind = types.KindItem
		owner.ChildGroupID = ""
	}
}

// subtree returns the ids of the group and every group reachable from it,
// guarded against corrupt cyclic links.
func (s *Store) subtree(rootID string) []string {
	var out []string
	visited := make(map[string]bool)
	var down func(id string)
	down = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		g, ok := s.groups[id]
		if !ok {
			return
		}
		out = append(out, id)
		for _, m := range g.Modifiers {
			if m.IsChoice() {
				down(m.ChildGroupID)
			}
		}
	}
	down(rootID)
	return out
}

func (s *Store) findModifier(id string) *types.Modifier {
	for _, g := range s.groups {
		if m := g.Modifier(id); m != nil {
			return m
		}
	}
	return nil
}

func (s *Store) groupOfModifier(id string) string {
	for _, g := range s.groups {
		if g.Modifier(id) != nil {
			return g.GroupID
		}
	}
	return ""
}

func (s *Store) ownerModifier(groupID string) *types.Modifier {
	for _, g := range s.groups {
		for _, m := range g.Modifiers {
			if m.IsChoice() && m.ChildGroupID == groupID {
				return m
			}
		}
	}
	return nil
}

func (s *Store) topLevelCount() int {
	n := 0
	for id := range s.groups {
		if s.ownerModifier(id) == nil {
			n++
		}
	}
	return n
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
