package sync

import (
	"context"

	"github.com/platewise/garnish/pkg/types"
)

// CreateGroup applies the creation locally under a provisional id and asks
// the store for the canonical one, which is merged back on confirmation.
// The full group spec travels with the create so that no follow-up patch
// has to reference the provisional id.
func (r *Reconciler) CreateGroup(ctx context.Context, group *types.ModifierGroup, parentModifierID string) (*types.ModifierGroup, error) {
	r.mu.Lock()
	g, err := r.forest.CreateGroup(group, parentModifierID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	gen := r.generation
	provisionalID := g.GroupID
	spec := g.Clone()
	r.mu.Unlock()

	var canonicalID string
	r.dispatch(ctx, "group.create", gen,
		func(ctx context.Context) error {
			id, err := r.store.CreateGroup(ctx, spec, parentModifierID)
			canonicalID = id
			return err
		},
		func() error {
			return r.forest.RemapGroupID(provisionalID, canonicalID)
		})
	return g, nil
}

// AddModifier appends a modifier locally and merges the canonical id back.
func (r *Reconciler) AddModifier(ctx context.Context, groupID string, m *types.Modifier) (*types.Modifier, error) {
	r.mu.Lock()
	added, err := r.forest.AddModifier(groupID, m)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	gen := r.generation
	provisionalID := added.ModifierID
	spec := added.Clone()
	r.mu.Unlock()

	var canonicalID string
	r.dispatch(ctx, "modifier.create", gen,
		func(ctx context.Context) error {
			id, err := r.store.CreateModifier(ctx, groupID, spec)
			canonicalID = id
			return err
		},
		func() error {
			return r.forest.RemapModifierID(provisionalID, canonicalID)
		})
	return added, nil
}

// UpdateGroup patches a group locally and mirrors the patch to the store.
// Pricing changes go through SetPricing instead, which debounces them.
func (r *Reconciler) UpdateGroup(ctx context.Context, groupID string, patch types.GroupPatch) error {
	r.mu.Lock()
	g, err := r.forest.Group(groupID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	applyGroupPatch(g, patch)
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "group.update", gen, func(ctx context.Context) error {
		return r.store.UpdateGroup(ctx, groupID, patch)
	}, nil)
	return nil
}

// UpdateModifier patches a modifier locally and mirrors the patch to the
// store.
func (r *Reconciler) UpdateModifier(ctx context.Context, modifierID string, patch types.ModifierPatch) error {
	r.mu.Lock()
	m, _, err := r.forest.Modifier(modifierID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	applyModifierPatch(m, patch)
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "modifier.update", gen, func(ctx context.Context) error {
		return r.store.UpdateModifier(ctx, modifierID, patch)
	}, nil)
	return nil
}

// DeleteModifier removes a modifier locally (promoting any child group)
// and mirrors the delete.
func (r *Reconciler) DeleteModifier(ctx context.Context, modifierID string) error {
	r.mu.Lock()
	if err := r.forest.DeleteModifier(modifierID); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "modifier.delete", gen, func(ctx context.Context) error {
		return r.store.DeleteModifier(ctx, modifierID)
	}, nil)
	return nil
}

// ReparentGroup moves a group locally, rejecting cycles synchronously, and
// mirrors the move.
func (r *Reconciler) ReparentGroup(ctx context.Context, groupID, targetParentModifierID string) error {
	r.mu.Lock()
	if err := r.forest.ReparentGroup(groupID, targetParentModifierID); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "group.reparent", gen, func(ctx context.Context) error {
		return r.store.Reparent(ctx, groupID, targetParentModifierID)
	}, nil)
	return nil
}

// NestGroupInGroup wraps the dragged group in a new modifier inside the
// target group. The wrapper is created first so the follow-up reparent can
// address its canonical id.
func (r *Reconciler) NestGroupInGroup(ctx context.Context, draggedGroupID, targetGroupID string) (*types.Modifier, error) {
	r.mu.Lock()
	wrapper, err := r.forest.NestGroupInGroup(draggedGroupID, targetGroupID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	gen := r.generation
	provisionalID := wrapper.ModifierID
	// The store links the child during Reparent; send the wrapper as a
	// plain item.
	spec := wrapper.Clone()
	spec.Kind = types.KindItem
	spec.ChildGroupID = ""
	r.mu.Unlock()

	var canonicalID string
	r.dispatch(ctx, "group.nest", gen,
		func(ctx context.Context) error {
			id, err := r.store.CreateModifier(ctx, targetGroupID, spec)
			if err != nil {
				return err
			}
			canonicalID = id
			return r.store.Reparent(ctx, draggedGroupID, id)
		},
		func() error {
			return r.forest.RemapModifierID(provisionalID, canonicalID)
		})
	return wrapper, nil
}

// DropGroupOnModifier replaces the target modifier's child group with the
// dragged one; the previous child is promoted to top-level first.
func (r *Reconciler) DropGroupOnModifier(ctx context.Context, draggedGroupID, targetModifierID string) error {
	r.mu.Lock()
	var previousChildID string
	if m, _, err := r.forest.Modifier(targetModifierID); err == nil && m.IsChoice() {
		previousChildID = m.ChildGroupID
	}
	if err := r.forest.DropGroupOnModifier(draggedGroupID, targetModifierID); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "group.drop", gen, func(ctx context.Context) error {
		if previousChildID != "" && previousChildID != draggedGroupID {
			if err := r.store.Reparent(ctx, previousChildID, ""); err != nil {
				return err
			}
		}
		return r.store.Reparent(ctx, draggedGroupID, targetModifierID)
	}, nil)
	return nil
}

// DuplicateGroup deep-copies a group locally under provisional ids. The
// store performs its own copy (always top-level) and the confirmation
// replaces local state with the authoritative snapshot, since a subtree of
// fresh canonical ids cannot be merged field-wise.
func (r *Reconciler) DuplicateGroup(ctx context.Context, groupID, targetParentGroupID string) (*types.ModifierGroup, error) {
	r.mu.Lock()
	dup, err := r.forest.DuplicateGroup(groupID, targetParentGroupID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	gen := r.generation

	// Where the duplicate must end up: the wrapper mechanism nests it
	// under a modifier; top-level needs no follow-up.
	wrapperParentGroupID := ""
	if ownerMod, nested := r.forest.OwnerModifier(dup.GroupID); nested {
		wrapperParentGroupID, _ = r.forest.ContainingGroup(ownerMod)
	}
	wrapperName := dup.Name
	r.mu.Unlock()

	r.dispatch(ctx, "group.duplicate", gen,
		func(ctx context.Context) error {
			newID, err := r.store.Duplicate(ctx, groupID)
			if err != nil {
				return err
			}
			if wrapperParentGroupID == "" {
				return nil
			}
			wrapperID, err := r.store.CreateModifier(ctx, wrapperParentGroupID, &types.Modifier{
				Name: wrapperName,
				Kind: types.KindItem,
			})
			if err != nil {
				return err
			}
			return r.store.Reparent(ctx, newID, wrapperID)
		},
		func() error {
			return r.reloadLocked(ctx)
		})
	return dup, nil
}

// PreviewDelete reports what deleting the group would remove. Pure local
// read; the store's read-only variant serves callers without a loaded
// forest.
func (r *Reconciler) PreviewDelete(groupID string) (types.DeletePreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forest.PreviewDelete(groupID)
}

// DeleteGroup cascades locally and mirrors the delete.
func (r *Reconciler) DeleteGroup(ctx context.Context, groupID string) error {
	r.mu.Lock()
	if err := r.forest.DeleteGroup(groupID); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "group.delete", gen, func(ctx context.Context) error {
		return r.store.DeleteGroup(ctx, groupID)
	}, nil)
	return nil
}

// ReorderGroups writes the new top-level order locally and as one bulk
// store call. Two reorders racing on the same scope are last-write-wins.
func (r *Reconciler) ReorderGroups(ctx context.Context, orderedTopLevelIDs []string) error {
	r.mu.Lock()
	if err := r.forest.ReorderGroups(orderedTopLevelIDs); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "group.reorder", gen, func(ctx context.Context) error {
		return r.store.BulkReorder(ctx, reorderEntries(orderedTopLevelIDs))
	}, nil)
	return nil
}

// ReorderModifiers writes one group's modifier order locally and as one
// bulk store call.
func (r *Reconciler) ReorderModifiers(ctx context.Context, groupID string, orderedModifierIDs []string) error {
	r.mu.Lock()
	if err := r.forest.ReorderModifiers(groupID, orderedModifierIDs); err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "modifier.reorder", gen, func(ctx context.Context) error {
		return r.store.BulkReorder(ctx, reorderEntries(orderedModifierIDs))
	}, nil)
	return nil
}

// SetDefault toggles a default flag under the selection cap; evicted
// defaults are mirrored to the store as independent patches.
func (r *Reconciler) SetDefault(ctx context.Context, groupID, modifierID string, makeDefault bool) error {
	r.mu.Lock()
	evicted, err := r.forest.SetDefault(groupID, modifierID, makeDefault)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	gen := r.generation
	r.mu.Unlock()

	r.dispatch(ctx, "modifier.set-default", gen, func(ctx context.Context) error {
		off := false
		for _, id := range evicted {
			if err := r.store.UpdateModifier(ctx, id, types.ModifierPatch{IsDefault: &off}); err != nil {
				return err
			}
		}
		flag := makeDefault
		return r.store.UpdateModifier(ctx, modifierID, types.ModifierPatch{IsDefault: &flag})
	}, nil)
	return nil
}

// applyGroupPatch folds a patch into the local group. Pricing is excluded
// on purpose; SetPricing owns that field.
func applyGroupPatch(g *types.ModifierGroup, patch types.GroupPatch) {
	if patch.Name != nil {
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
	if patch.ExclusionKey != nil {
		g.ExclusionKey = *patch.ExclusionKey
	}
	if patch.SortOrder != nil {
		g.SortOrder = *patch.SortOrder
	}
}

// applyModifierPatch folds a patch into the local modifier.
func applyModifierPatch(m *types.Modifier, patch types.ModifierPatch) {
	if patch.Name != nil {
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
}

// reorderEntries builds dense 0-based bulk reorder entries.
func reorderEntries(ids []string) []types.ReorderEntry {
	entries := make([]types.ReorderEntry, len(ids))
	for i, id := range ids {
		entries[i] = types.ReorderEntry{ID: id, SortOrder: i}
	}
	return entries
}
