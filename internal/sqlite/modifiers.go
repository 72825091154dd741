package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/platewise/garnish/pkg/types"
)

// CreateModifier inserts a modifier at the end of the group's list and
// returns the canonical id.
func (b *Backend) CreateModifier(ctx context.Context, groupID string, m *types.Modifier) (string, error) {
	db, err := b.handle()
	if err != nil {
		return "", err
	}
	if err := m.Validate(); err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM modifier_groups WHERE group_id = ?", groupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("checking group %s: %w", groupID, err)
	}

	var dup int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM modifiers WHERE group_id = ? AND name = ?",
		groupID, m.Name).Scan(&dup)
	if err == nil {
		return "", fmt.Errorf("modifier %s in group %s: %w", m.Name, groupID, types.ErrDuplicateName)
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking modifier name: %w", err)
	}

	var sortOrder int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order) + 1, 0) FROM modifiers WHERE group_id = ?",
		groupID).Scan(&sortOrder)
	if err != nil {
		return "", fmt.Errorf("computing modifier order: %w", err)
	}

	id, err := insertModifier(ctx, tx, groupID, m, sortOrder, timestamp(time.Now()))
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing modifier: %w", err)
	}
	return id, nil
}

// UpdateModifier applies the non-nil patch fields.
func (b *Backend) UpdateModifier(ctx context.Context, id string, patch types.ModifierPatch) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{timestamp(time.Now())}
	if patch.Name != nil {
		var dup int
		err := db.QueryRowContext(ctx,
			`SELECT 1 FROM modifiers
			 WHERE name = ? AND modifier_id <> ?
			   AND group_id = (SELECT group_id FROM modifiers WHERE modifier_id = ?)`,
			*patch.Name, id, id).Scan(&dup)
		if err == nil {
			return fmt.Errorf("modifier %s: %w", *patch.Name, types.ErrDuplicateName)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking modifier name: %w", err)
		}
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.PriceCents != nil {
		sets = append(sets, "price_cents = ?")
		args = append(args, *patch.PriceCents)
	}
	if patch.PreModifiers != nil {
		raw, err := preModifiersToJSON(*patch.PreModifiers)
		if err != nil {
			return err
		}
		sets = append(sets, "pre_modifiers = ?")
		args = append(args, raw)
	}
	if patch.IsDefault != nil {
		sets = append(sets, "is_default = ?")
		args = append(args, boolToInt(*patch.IsDefault))
	}
	if patch.IngredientID != nil {
		sets = append(sets, "ingredient_id = ?")
		args = append(args, *patch.IngredientID)
	}
	if patch.PrinterRouting != nil {
		sets = append(sets, "printer_routing = ?")
		args = append(args, *patch.PrinterRouting)
	}
	if patch.SortOrder != nil {
		sets = append(sets, "sort_order = ?")
		args = append(args, *patch.SortOrder)
	}
	args = append(args, id)

	res, err := db.ExecContext(ctx,
		"UPDATE modifiers SET "+strings.Join(sets, ", ")+" WHERE modifier_id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating modifier %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("modifier %s: %w", id, types.ErrNotFound)
	}
	return nil
}

// DeleteModifier removes one modifier. A choice modifier's child group is
// promoted to top-level, not cascaded.
func (b *Backend) DeleteModifier(ctx context.Context, id string) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var child sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT child_group_id FROM modifiers WHERE modifier_id = ?", id).Scan(&child)
	if err == sql.ErrNoRows {
		return fmt.Errorf("modifier %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking modifier %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM modifiers WHERE modifier_id = ?", id); err != nil {
		return fmt.Errorf("deleting modifier %s: %w", id, err)
	}

	// The child is top-level once the owning row is gone; give it a fresh
	// slot at the end of the top-level list.
	if child.Valid && child.String != "" {
		order, err := nextTopLevelOrder(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE modifier_groups SET sort_order = ?, updated_at = ? WHERE group_id = ?",
			order, timestamp(time.Now()), child.String)
		if err != nil {
			return fmt.Errorf("promoting group %s: %w", child.String, err)
		}
	}
	return tx.Commit()
}

// insertModifier writes one modifier row inside an open transaction. The
// modifier's own id is honored when set (seed data); otherwise a canonical
// one is generated.
func insertModifier(ctx context.Context, tx *sql.Tx, groupID string, m *types.Modifier, sortOrder int, now string) (string, error) {
	id := m.ModifierID
	if id == "" {
		id = generateUUID()
	}
	preMods, err := preModifiersToJSON(m.PreModifiers)
	if err != nil {
		return "", err
	}
	var child any
	if m.ChildGroupID != "" {
		child = m.ChildGroupID
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO modifiers
	    (modifier_id, group_id, name, price_cents, kind, child_group_id,
	     pre_modifiers, is_default, ingredient_id, printer_routing,
	     sort_order, created_at, updated_at)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, groupID, m.Name, m.PriceCents, m.Kind, child, preMods,
		boolToInt(m.IsDefault), m.IngredientID, m.PrinterRouting,
		sortOrder, now, now)
	if err != nil {
		return "", fmt.Errorf("inserting modifier: %w", err)
	}
	return id, nil
}
