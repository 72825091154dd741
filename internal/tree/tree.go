// Package tree holds the in-memory canonical forest of modifier groups for
// one menu item, together with the structural mutations and the default-
// selection policy that operate on it. The package performs no I/O; the
// sync reconciler pairs every mutation with the matching entity-store call.
//
// Representation: groups are kept in an id-indexed map with explicit
// ownership indexes (nested group id -> owning choice modifier id, and
// modifier id -> containing group id), so traversal is index-based and
// cycle checks are O(depth) with a visited set.
package tree

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/platewise/garnish/pkg/types"
)

// Store is the canonical in-memory forest for one menu item.
type Store struct {
	groups   map[string]*types.ModifierGroup
	owner    map[string]string // nested group id -> owning choice modifier id
	modGroup map[string]string // modifier id -> containing group id
	topLevel []string          // ordered top-level group ids
}

// New returns an empty store.
func New() *Store {
	return &Store{
		groups:   make(map[string]*types.ModifierGroup),
		owner:    make(map[string]string),
		modGroup: make(map[string]string),
	}
}

// Load replaces the store contents with the given flat group list (the
// authoritative snapshot shape returned by Store.LoadGroups). Ownership is
// derived from choice modifiers' child-group links; groups owned by no
// modifier become top-level, ordered by their sort order. Load rejects
// corrupt input: duplicate ids, dangling child links, multiply-owned
// groups, and groups unreachable from any top-level root (which covers
// ownership cycles).
func (s *Store) Load(groups []*types.ModifierGroup) error {
	next := New()

	for _, g := range groups {
		if g.GroupID == "" {
			return types.ErrInvalidID
		}
		if _, ok := next.groups[g.GroupID]; ok {
			return fmt.Errorf("%w: duplicate group id %s", types.ErrInvalidData, g.GroupID)
		}
		next.groups[g.GroupID] = g.Clone()
	}

	for _, g := range next.groups {
		for _, m := range g.Modifiers {
			if m.ModifierID == "" {
				return types.ErrInvalidID
			}
			if _, ok := next.modGroup[m.ModifierID]; ok {
				return fmt.Errorf("%w: duplicate modifier id %s", types.ErrInvalidData, m.ModifierID)
			}
			next.modGroup[m.ModifierID] = g.GroupID

			if !m.IsChoice() {
				continue
			}
			child, ok := next.groups[m.ChildGroupID]
			if !ok {
				return fmt.Errorf("%w: modifier %s links to unknown group %s",
					types.ErrInvalidData, m.ModifierID, m.ChildGroupID)
			}
			if prev, owned := next.owner[child.GroupID]; owned {
				return fmt.Errorf("%w: group %s owned by both %s and %s",
					types.ErrInvalidData, child.GroupID, prev, m.ModifierID)
			}
			next.owner[child.GroupID] = m.ModifierID
		}
	}

	next.topLevel = sortedRootIDs(next.groups, next.owner)
	next.renumberTopLevel()

	// Every group must be reachable from a top-level root; anything left
	// over is an ownership cycle detached from the forest.
	reached := 0
	next.walk(next.topLevel, func(*types.ModifierGroup) bool {
		reached++
		return true
	})
	if reached != len(next.groups) {
		return fmt.Errorf("%w: %d of %d groups unreachable from top level",
			types.ErrInvalidData, len(next.groups)-reached, len(next.groups))
	}

	*s = *next
	return nil
}

// walk visits groups depth-first starting from the given ids, descending
// through each choice modifier's child group. A repeated group id stops
// that branch without error: a cycle here indicates prior corruption, not
// a normal outcome, and traversal must never loop on it. The visit
// function returns false to halt the walk.
func (s *Store) walk(from []string, visit func(g *types.ModifierGroup) bool) {
	visited := make(map[string]bool)
	var down func(id string) bool
	down = func(id string) bool {
		if visited[id] {
			return true
		}
		visited[id] = true
		g, ok := s.groups[id]
		if !ok {
			return true
		}
		if !visit(g) {
			return false
		}
		for _, m := range g.Modifiers {
			if m.IsChoice() {
				if !down(m.ChildGroupID) {
					return false
				}
			}
		}
		return true
	}
	for _, id := range from {
		if !down(id) {
			return
		}
	}
}

// Group finds a group by depth-first search from the top-level list.
func (s *Store) Group(id string) (*types.ModifierGroup, error) {
	var found *types.ModifierGroup
	s.walk(s.topLevel, func(g *types.ModifierGroup) bool {
		if g.GroupID == id {
			found = g
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	return found, nil
}

// Modifier finds a modifier by depth-first search and returns it together
// with its containing group.
func (s *Store) Modifier(id string) (*types.Modifier, *types.ModifierGroup, error) {
	var (
		foundMod   *types.Modifier
		foundGroup *types.ModifierGroup
	)
	s.walk(s.topLevel, func(g *types.ModifierGroup) bool {
		for _, m := range g.Modifiers {
			if m.ModifierID == id {
				foundMod, foundGroup = m, g
				return false
			}
		}
		return true
	})
	if foundMod == nil {
		return nil, nil, fmt.Errorf("modifier %s: %w", id, types.ErrNotFound)
	}
	return foundMod, foundGroup, nil
}

// IsDescendantOf reports whether targetGroupID is reachable by following
// child-group links starting at ancestorGroupID. Reflexive: a group is its
// own descendant. Used exclusively to veto structural mutations that would
// create a cycle.
func (s *Store) IsDescendantOf(ancestorGroupID, targetGroupID string) bool {
	found := false
	s.walk([]string{ancestorGroupID}, func(g *types.ModifierGroup) bool {
		if g.GroupID == targetGroupID {
			found = true
			return false
		}
		return true
	})
	return found
}

// TopLevel returns the top-level groups in display order.
func (s *Store) TopLevel() []*types.ModifierGroup {
	out := make([]*types.ModifierGroup, 0, len(s.topLevel))
	for _, id := range s.topLevel {
		out = append(out, s.groups[id])
	}
	return out
}

// OwnerModifier returns the id of the choice modifier owning the group, or
// false for a top-level (or unknown) group.
func (s *Store) OwnerModifier(groupID string) (string, bool) {
	id, ok := s.owner[groupID]
	return id, ok
}

// ContainingGroup returns the id of the group containing the modifier.
func (s *Store) ContainingGroup(modifierID string) (string, bool) {
	id, ok := s.modGroup[modifierID]
	return id, ok
}

// GroupCount returns the number of groups in the forest.
func (s *Store) GroupCount() int {
	return len(s.groups)
}

// Groups returns every group as a flat list, top-level groups first in
// display order, then nested groups in traversal order. The returned
// pointers are the live store state; callers that persist them must clone.
func (s *Store) Groups() []*types.ModifierGroup {
	out := make([]*types.ModifierGroup, 0, len(s.groups))
	s.walk(s.topLevel, func(g *types.ModifierGroup) bool {
		out = append(out, g)
		return true
	})
	return out
}

// Snapshot captures a deep copy of the current forest for later Restore.
type Snapshot struct {
	groups   []*types.ModifierGroup
	topLevel []string
}

// Snapshot returns a deep copy of the forest.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		groups:   make([]*types.ModifierGroup, 0, len(s.groups)),
		topLevel: append([]string(nil), s.topLevel...),
	}
	for _, g := range s.groups {
		snap.groups = append(snap.groups, g.Clone())
	}
	return snap
}

// Restore replaces the store contents with the snapshot. The snapshot
// remains usable afterwards.
func (s *Store) Restore(snap *Snapshot) {
	next := New()
	for _, g := range snap.groups {
		c := g.Clone()
		next.groups[c.GroupID] = c
		for _, m := range c.Modifiers {
			next.modGroup[m.ModifierID] = c.GroupID
			if m.IsChoice() {
				next.owner[m.ChildGroupID] = m.ModifierID
			}
		}
	}
	next.topLevel = append([]string(nil), snap.topLevel...)
	*s = *next
}

// RemapGroupID renames a group in place, typically from a provisional id to
// the canonical id assigned by the entity store.
func (s *Store) RemapGroupID(oldID, newID string) error {
	g, ok := s.groups[oldID]
	if !ok {
		return fmt.Errorf("group %s: %w", oldID, types.ErrNotFound)
	}
	if oldID == newID {
		return nil
	}
	if _, taken := s.groups[newID]; taken {
		return fmt.Errorf("%w: group id %s already in use", types.ErrConflict, newID)
	}

	delete(s.groups, oldID)
	g.GroupID = newID
	s.groups[newID] = g

	for _, m := range g.Modifiers {
		s.modGroup[m.ModifierID] = newID
	}
	if modID, nested := s.owner[oldID]; nested {
		delete(s.owner, oldID)
		s.owner[newID] = modID
		if m, _, err := s.Modifier(modID); err == nil {
			m.ChildGroupID = newID
		}
	} else {
		for i, id := range s.topLevel {
			if id == oldID {
				s.topLevel[i] = newID
			}
		}
	}
	return nil
}

// RemapModifierID renames a modifier in place, typically from a provisional
// id to the canonical id assigned by the entity store.
func (s *Store) RemapModifierID(oldID, newID string) error {
	groupID, ok := s.modGroup[oldID]
	if !ok {
		return fmt.Errorf("modifier %s: %w", oldID, types.ErrNotFound)
	}
	if oldID == newID {
		return nil
	}
	if _, taken := s.modGroup[newID]; taken {
		return fmt.Errorf("%w: modifier id %s already in use", types.ErrConflict, newID)
	}

	g := s.groups[groupID]
	m := g.Modifier(oldID)
	m.ModifierID = newID
	delete(s.modGroup, oldID)
	s.modGroup[newID] = groupID
	if m.IsChoice() {
		s.owner[m.ChildGroupID] = newID
	}
	return nil
}

// newID generates a provisional UUID v7. Canonical ids arrive from the
// entity store and replace provisional ones via the remap methods.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// renumberTopLevel reassigns dense 0-based sort orders to the top-level list.
func (s *Store) renumberTopLevel() {
	for i, id := range s.topLevel {
		s.groups[id].SortOrder = i
	}
}

// sortedRootIDs returns the ids of groups owned by no modifier, ordered by
// their persisted sort order, ties broken by id.
func sortedRootIDs(groups map[string]*types.ModifierGroup, owner map[string]string) []string {
	var roots []*types.ModifierGroup
	for _, g := range groups {
		if _, nested := owner[g.GroupID]; !nested {
			roots = append(roots, g)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if roots[i].SortOrder != roots[j].SortOrder {
			return roots[i].SortOrder < roots[j].SortOrder
		}
		return roots[i].GroupID < roots[j].GroupID
	})
	ids := make([]string, len(roots))
	for i, g := range roots {
		ids[i] = g.GroupID
	}
	return ids
}
