package sqlite

import (
	"context"
	"fmt"

	"github.com/platewise/garnish/internal/demo"
	"github.com/platewise/garnish/pkg/types"
)

// Seed populates an empty store with the demo menu. Refuses to run on a
// store that already holds groups.
func (b *Backend) Seed(ctx context.Context) error {
	existing, err := b.LoadGroups(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("store already holds %d groups: %w", len(existing), types.ErrConflict)
	}

	// Group name -> canonical id.
	groupIDs := make(map[string]string)

	for _, d := range demo.Menu() {
		parentModifierID := ""
		if d.ParentModifier != "" {
			id, err := b.findModifierByName(ctx, groupIDs[d.ParentGroup], d.ParentModifier)
			if err != nil {
				return err
			}
			parentModifierID = id
		}
		id, err := b.CreateGroup(ctx, d.Group, parentModifierID)
		if err != nil {
			return fmt.Errorf("seeding group %s: %w", d.Group.Name, err)
		}
		groupIDs[d.Group.Name] = id
	}

	for id, name := range demo.Ingredients() {
		if err := b.PutIngredient(ctx, id, name); err != nil {
			return err
		}
	}
	return nil
}

// findModifierByName resolves one seeded modifier's canonical id.
func (b *Backend) findModifierByName(ctx context.Context, groupID, name string) (string, error) {
	db, err := b.handle()
	if err != nil {
		return "", err
	}
	var id string
	err = db.QueryRowContext(ctx,
		"SELECT modifier_id FROM modifiers WHERE group_id = ? AND name = ?",
		groupID, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("finding modifier %s in group %s: %w", name, groupID, err)
	}
	return id, nil
}
