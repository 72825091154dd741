package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/platewise/garnish/pkg/types"
)

// IngredientName resolves the display label of an inventory ingredient.
func (b *Backend) IngredientName(ctx context.Context, ingredientID string) (string, error) {
	db, err := b.handle()
	if err != nil {
		return "", err
	}
	if ingredientID == "" {
		return "", types.ErrInvalidID
	}

	var name string
	err = db.QueryRowContext(ctx,
		"SELECT name FROM ingredients WHERE ingredient_id = ?", ingredientID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("ingredient %s: %w", ingredientID, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolving ingredient %s: %w", ingredientID, err)
	}
	return name, nil
}

// PutIngredient upserts one ingredient record. The menu engine never
// writes ingredient data; this exists for seeding and for the inventory
// import job.
func (b *Backend) PutIngredient(ctx context.Context, ingredientID, name string) error {
	db, err := b.handle()
	if err != nil {
		return err
	}
	if ingredientID == "" {
		return types.ErrInvalidID
	}
	if name == "" {
		return types.ErrInvalidName
	}
	_, err = db.ExecContext(ctx, `INSERT INTO ingredients (ingredient_id, name)
	    VALUES (?, ?)
	    ON CONFLICT(ingredient_id) DO UPDATE SET name = excluded.name`,
		ingredientID, name)
	if err != nil {
		return fmt.Errorf("storing ingredient %s: %w", ingredientID, err)
	}
	return nil
}
