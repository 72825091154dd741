package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/platewise/garnish/pkg/types"
)

// seedSandwich builds a small forest and returns the ids it created:
// Bread [White, Toasted -> Toast Level [Light, Dark]], Cheese [Cheddar].
type sandwichIDs struct {
	bread, toast, cheese           string
	white, toasted, light, cheddar string
}

func seedSandwich(t *testing.T, b *Backend) sandwichIDs {
	t.Helper()
	ctx := context.Background()
	var ids sandwichIDs
	var err error

	ids.bread, err = b.CreateGroup(ctx, &types.ModifierGroup{
		Name: "Bread", MinSelections: 1, MaxSelections: 1,
	}, "")
	if err != nil {
		t.Fatalf("creating Bread: %v", err)
	}
	ids.white, err = b.CreateModifier(ctx, ids.bread, &types.Modifier{
		Name: "White", Kind: types.KindItem, IsDefault: true,
	})
	if err != nil {
		t.Fatalf("creating White: %v", err)
	}
	ids.toasted, err = b.CreateModifier(ctx, ids.bread, &types.Modifier{
		Name: "Toasted", Kind: types.KindItem,
	})
	if err != nil {
		t.Fatalf("creating Toasted: %v", err)
	}
	ids.toast, err = b.CreateGroup(ctx, &types.ModifierGroup{
		Name: "Toast Level", MaxSelections: 1,
	}, ids.toasted)
	if err != nil {
		t.Fatalf("creating Toast Level: %v", err)
	}
	ids.light, err = b.CreateModifier(ctx, ids.toast, &types.Modifier{
		Name: "Light", Kind: types.KindItem,
	})
	if err != nil {
		t.Fatalf("creating Light: %v", err)
	}
	if _, err = b.CreateModifier(ctx, ids.toast, &types.Modifier{
		Name: "Dark", Kind: types.KindItem,
	}); err != nil {
		t.Fatalf("creating Dark: %v", err)
	}
	ids.cheese, err = b.CreateGroup(ctx, &types.ModifierGroup{
		Name: "Cheese", MaxSelections: 2,
	}, "")
	if err != nil {
		t.Fatalf("creating Cheese: %v", err)
	}
	ids.cheddar, err = b.CreateModifier(ctx, ids.cheese, &types.Modifier{
		Name: "Cheddar", Kind: types.KindItem, PriceCents: 100,
	})
	if err != nil {
		t.Fatalf("creating Cheddar: %v", err)
	}
	return ids
}

func findGroup(t *testing.T, groups []*types.ModifierGroup, id string) *types.ModifierGroup {
	t.Helper()
	for _, g := range groups {
		if g.GroupID == id {
			return g
		}
	}
	t.Fatalf("group %s not in loaded set", id)
	return nil
}

func TestLoadGroups_RoundTrip(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)

	groups, err := b.LoadGroups(context.Background())
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	bread := findGroup(t, groups, ids.bread)
	if len(bread.Modifiers) != 2 {
		t.Fatalf("Bread should hold 2 modifiers, got %d", len(bread.Modifiers))
	}
	if bread.Modifiers[0].ModifierID != ids.white || !bread.Modifiers[0].IsDefault {
		t.Errorf("White should come first and be default, got %+v", bread.Modifiers[0])
	}
	toasted := bread.Modifiers[1]
	if toasted.Kind != types.KindChoice || toasted.ChildGroupID != ids.toast {
		t.Errorf("Toasted should be a choice owning %s, got %+v", ids.toast, toasted)
	}
}

func TestCreateGroup_RejectsOccupiedModifier(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)

	_, err := b.CreateGroup(context.Background(),
		&types.ModifierGroup{Name: "Second Child"}, ids.toasted)
	if !errors.Is(err, types.ErrChildOccupied) {
		t.Errorf("expected ErrChildOccupied, got %v", err)
	}
}

func TestUpdateGroup_PatchesFields(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	name := "Bread Choice"
	maxSel := 3
	pricing := &types.TieredPricingConfig{
		Enabled:       true,
		Modes:         types.PricingModes{FreeThreshold: true},
		FreeThreshold: &types.FreeThresholdConfig{FreeCount: 1},
	}
	err := b.UpdateGroup(ctx, ids.bread, types.GroupPatch{
		Name: &name, MaxSelections: &maxSel, Pricing: pricing,
	})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	groups, _ := b.LoadGroups(ctx)
	bread := findGroup(t, groups, ids.bread)
	if bread.Name != name || bread.MaxSelections != 3 {
		t.Errorf("patch not applied: %+v", bread)
	}
	if bread.Pricing == nil || bread.Pricing.FreeThreshold.FreeCount != 1 {
		t.Errorf("pricing patch not applied: %+v", bread.Pricing)
	}
	// MinSelections was not part of the patch.
	if bread.MinSelections != 1 {
		t.Errorf("untouched field changed: %+v", bread)
	}
}

func TestUpdateGroup_NotFound(t *testing.T) {
	b := newAttachedBackend(t)
	name := "x"
	err := b.UpdateGroup(context.Background(), "missing", types.GroupPatch{Name: &name})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPreviewDelete_CountsSubtree(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)

	preview, err := b.PreviewDelete(context.Background(), ids.bread)
	if err != nil {
		t.Fatalf("PreviewDelete failed: %v", err)
	}
	if preview.GroupCount != 2 {
		t.Errorf("expected 2 groups, got %d", preview.GroupCount)
	}
	if preview.ModifierCount != 4 {
		t.Errorf("expected 4 modifiers, got %d", preview.ModifierCount)
	}
	if preview.GroupName != "Bread" {
		t.Errorf("expected name Bread, got %q", preview.GroupName)
	}
}

func TestDeleteGroup_Cascades(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	if err := b.DeleteGroup(ctx, ids.bread); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	groups, err := b.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].GroupID != ids.cheese {
		t.Errorf("only Cheese should survive, got %+v", groups)
	}
}

func TestDeleteGroup_RevertsOwnerToItem(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	if err := b.DeleteGroup(ctx, ids.toast); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	groups, _ := b.LoadGroups(ctx)
	bread := findGroup(t, groups, ids.bread)
	toasted := bread.Modifiers[1]
	if toasted.Kind != types.KindItem || toasted.ChildGroupID != "" {
		t.Errorf("owner should revert to plain item, got %+v", toasted)
	}
}

func TestDeleteModifier_PromotesChildGroup(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	if err := b.DeleteModifier(ctx, ids.toasted); err != nil {
		t.Fatalf("DeleteModifier failed: %v", err)
	}

	groups, _ := b.LoadGroups(ctx)
	if len(groups) != 3 {
		t.Fatalf("Toast Level should survive as top-level, got %d groups", len(groups))
	}
	toast := findGroup(t, groups, ids.toast)
	if len(toast.Modifiers) != 2 {
		t.Errorf("promoted group should keep its modifiers, got %+v", toast.Modifiers)
	}
}

func TestModifierNames_UniquePerGroup(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	_, err := b.CreateModifier(ctx, ids.bread, &types.Modifier{Name: "White", Kind: types.KindItem})
	if !errors.Is(err, types.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// The same name in another group is fine.
	if _, err := b.CreateModifier(ctx, ids.toast, &types.Modifier{Name: "White", Kind: types.KindItem}); err != nil {
		t.Fatalf("CreateModifier in other group failed: %v", err)
	}

	// Renaming onto a sibling's name is the same conflict.
	taken := "White"
	err = b.UpdateModifier(ctx, ids.toasted, types.ModifierPatch{Name: &taken})
	if !errors.Is(err, types.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName on rename, got %v", err)
	}

	// Renaming a modifier to its own name is not a conflict.
	own := "Toasted"
	if err := b.UpdateModifier(ctx, ids.toasted, types.ModifierPatch{Name: &own}); err != nil {
		t.Fatalf("self-rename failed: %v", err)
	}
}

func TestReparent_AttachAndPromote(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	if err := b.Reparent(ctx, ids.cheese, ids.white); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	groups, _ := b.LoadGroups(ctx)
	bread := findGroup(t, groups, ids.bread)
	if bread.Modifiers[0].ChildGroupID != ids.cheese {
		t.Fatalf("White should own Cheese, got %+v", bread.Modifiers[0])
	}

	// And back to top-level.
	if err := b.Reparent(ctx, ids.cheese, ""); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	groups, _ = b.LoadGroups(ctx)
	bread = findGroup(t, groups, ids.bread)
	if bread.Modifiers[0].Kind != types.KindItem {
		t.Errorf("White should revert to item, got %+v", bread.Modifiers[0])
	}
}

func TestReparent_RejectsCycle(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)

	// Bread under a modifier inside its own subtree.
	err := b.Reparent(context.Background(), ids.bread, ids.light)
	if !errors.Is(err, types.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestReparent_RejectsOccupiedTarget(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)

	err := b.Reparent(context.Background(), ids.cheese, ids.toasted)
	if !errors.Is(err, types.ErrChildOccupied) {
		t.Errorf("expected ErrChildOccupied, got %v", err)
	}
}

func TestDuplicate_CopiesSubtreeTopLevel(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	newID, err := b.Duplicate(ctx, ids.bread)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if newID == ids.bread {
		t.Fatal("duplicate must get a fresh id")
	}

	groups, err := b.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	// Bread, Toast Level, Cheese, plus the two copies.
	if len(groups) != 5 {
		t.Fatalf("expected 5 groups after duplicate, got %d", len(groups))
	}

	copied := findGroup(t, groups, newID)
	if copied.Name != "Bread" || len(copied.Modifiers) != 2 {
		t.Fatalf("copy should mirror Bread, got %+v", copied)
	}
	copiedToasted := copied.Modifiers[1]
	if copiedToasted.ChildGroupID == "" || copiedToasted.ChildGroupID == ids.toast {
		t.Errorf("nested child must be re-keyed, got %q", copiedToasted.ChildGroupID)
	}
}

func TestBulkReorder_GroupsAndModifiers(t *testing.T) {
	b := newAttachedBackend(t)
	ids := seedSandwich(t, b)
	ctx := context.Background()

	err := b.BulkReorder(ctx, []types.ReorderEntry{
		{ID: ids.cheese, SortOrder: 0},
		{ID: ids.bread, SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("BulkReorder groups failed: %v", err)
	}

	err = b.BulkReorder(ctx, []types.ReorderEntry{
		{ID: ids.toasted, SortOrder: 0},
		{ID: ids.white, SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("BulkReorder modifiers failed: %v", err)
	}

	groups, _ := b.LoadGroups(ctx)
	if groups[0].GroupID != ids.cheese {
		t.Errorf("Cheese should sort first, got %s", groups[0].GroupID)
	}
	bread := findGroup(t, groups, ids.bread)
	if bread.Modifiers[0].ModifierID != ids.toasted {
		t.Errorf("Toasted should sort first, got %+v", bread.Modifiers[0])
	}
}

func TestBulkReorder_UnknownID(t *testing.T) {
	b := newAttachedBackend(t)
	seedSandwich(t, b)

	err := b.BulkReorder(context.Background(), []types.ReorderEntry{{ID: "missing"}})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngredients_RoundTrip(t *testing.T) {
	b := newAttachedBackend(t)
	ctx := context.Background()

	if err := b.PutIngredient(ctx, "ing-1", "Cheddar Block"); err != nil {
		t.Fatalf("PutIngredient failed: %v", err)
	}
	name, err := b.IngredientName(ctx, "ing-1")
	if err != nil {
		t.Fatalf("IngredientName failed: %v", err)
	}
	if name != "Cheddar Block" {
		t.Errorf("expected Cheddar Block, got %q", name)
	}

	_, err = b.IngredientName(ctx, "missing")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSeed_PopulatesDemoMenu(t *testing.T) {
	b := newAttachedBackend(t)
	ctx := context.Background()

	if err := b.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	groups, err := b.LoadGroups(ctx)
	if err != nil {
		t.Fatalf("LoadGroups failed: %v", err)
	}
	if len(groups) != 4 {
		t.Fatalf("demo menu should hold 4 groups, got %d", len(groups))
	}

	// Refuses to seed twice.
	if err := b.Seed(ctx); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected ErrConflict on second seed, got %v", err)
	}
}
