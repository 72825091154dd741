package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/platewise/garnish/pkg/types"
)

// LoadGroups returns every group with its modifiers as a flat list.
// Ownership is implicit in the modifiers' child_group_id columns.
func (b *Backend) LoadGroups(ctx context.Context) ([]*types.ModifierGroup, error) {
	db, err := b.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT group_id, name, display_name,
	    min_selections, max_selections, is_required, allow_stacking,
	    pricing, exclusion_key, sort_order
	    FROM modifier_groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	defer rows.Close()

	var groups []*types.ModifierGroup
	byID := make(map[string]*types.ModifierGroup)
	for rows.Next() {
		g := &types.ModifierGroup{}
		var pricing sql.NullString
		if err := rows.Scan(&g.GroupID, &g.Name, &g.DisplayName,
			&g.MinSelections, &g.MaxSelections, &g.IsRequired, &g.AllowStacking,
			&pricing, &g.ExclusionKey, &g.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		if g.Pricing, err = pricingFromJSON(pricing); err != nil {
			return nil, err
		}
		groups = append(groups, g)
		byID[g.GroupID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := db.QueryContext(ctx, `SELECT modifier_id, group_id, name,
	    price_cents, kind, child_group_id, pre_modifiers, is_default,
	    ingredient_id, printer_routing, sort_order
	    FROM modifiers ORDER BY group_id, sort_order`)
	if err != nil {
		return nil, fmt.Errorf("loading modifiers: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		m := &types.Modifier{}
		var groupID string
		var childGroupID, preMods sql.NullString
		if err := mrows.Scan(&m.ModifierID, &groupID, &m.Name,
			&m.PriceCents, &m.Kind, &childGroupID, &preMods, &m.IsDefault,
			&m.IngredientID, &m.PrinterRouting, &m.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning modifier: %w", err)
		}
		m.ChildGroupID = childGroupID.String
		if m.PreModifiers, err = preModifiersFromJSON(preMods); err != nil {
			return nil, err
		}
		g, ok := byID[groupID]
		if !ok {
			return nil, fmt.Errorf("modifier %s references missing group %s: %w",
				m.ModifierID, groupID, types.ErrNotFound)
		}
		g.Modifiers = append(g.Modifiers, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup inserts the group (plus any modifiers it carries) and returns
// the canonical id. A non-empty parentModifierID attaches it as that
// modifier's child group.
func (b *Backend) CreateGroup(ctx context.Context, g *types.ModifierGroup, parentModifierID string) (string, error) {
	db, err := b.handle()
	if err != nil {
		return "", err
	}
	if err := g.Validate(); err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if parentModifierID != "" {
		if err := requireUnoccupied(ctx, tx, parentModifierID); err != nil {
			return "", err
		}
	}

	id := generateUUID()
	now := timestamp(time.Now())

	sortOrder := 0
	if parentModifierID == "" {
		if sortOrder, err = nextTopLevelOrder(ctx, tx); err != nil {
			return "", err
		}
	}

	pricing, err := pricingToJSON(g.Pricing)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO modifier_groups
	    (group_id, name, display_name, min_selections, max_selections,
	     is_required, allow_stacking, pricing, exclusion_key, sort_order,
	     created_at, updated_at)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, g.Name, g.DisplayName, g.MinSelections, g.MaxSelections,
		boolToInt(g.IsRequired), boolToInt(g.AllowStacking), pricing,
		g.ExclusionKey, sortOrder, now, now)
	if err != nil {
		return "", fmt.Errorf("inserting group: %w", err)
	}

	for i, m := range g.Modifiers {
		if _, err := insertModifier(ctx, tx, id, m, i, now); err != nil {
			return "", err
		}
	}

	if parentModifierID != "" {
		_, err = tx.ExecContext(ctx,
			"UPDATE modifiers SET kind = ?, child_group_id = ?, updated_at = ? WHERE modifier_id = ?",
			types.KindChoice, id, now, parentModifierID)
		if err != nil {
			return "", fmt.Errorf("attaching group to modifier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing group: %w", err)
	}
	return id, nil
}

// UpdateGroup applies the non-nil patch fields.
func (b *Backend) UpdateGroup(ctx context.Context, id string, patch types.GroupPatch) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{timestamp(time.Now())}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *patch.DisplayName)
	}
	if patch.MinSelections != nil {
		sets = append(sets, "min_selections = ?")
		args = append(args, *patch.MinSelections)
	}
	if patch.MaxSelections != nil {
		sets = append(sets, "max_selections = ?")
		args = append(args, *patch.MaxSelections)
	}
	if patch.IsRequired != nil {
		sets = append(sets, "is_required = ?")
		args = append(args, boolToInt(*patch.IsRequired))
	}
	if patch.AllowStacking != nil {
		sets = append(sets, "allow_stacking = ?")
		args = append(args, boolToInt(*patch.AllowStacking))
	}
	if patch.Pricing != nil {
		if err := patch.Pricing.Validate(); err != nil {
			return err
		}
		pricing, err := pricingToJSON(patch.Pricing)
		if err != nil {
			return err
		}
		sets = append(sets, "pricing = ?")
		args = append(args, pricing)
	}
	if patch.ExclusionKey != nil {
		sets = append(sets, "exclusion_key = ?")
		args = append(args, *patch.ExclusionKey)
	}
	if patch.SortOrder != nil {
		sets = append(sets, "sort_order = ?")
		args = append(args, *patch.SortOrder)
	}
	args = append(args, id)

	res, err := db.ExecContext(ctx,
		"UPDATE modifier_groups SET "+strings.Join(sets, ", ")+" WHERE group_id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating group %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes the group and its whole reachable subtree. The
// owning modifier, when one exists, reverts to a plain item.
func (b *Backend) DeleteGroup(ctx context.Context, id string) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids, err := subtreeGroupIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	now := timestamp(time.Now())
	_, err = tx.ExecContext(ctx,
		"UPDATE modifiers SET kind = ?, child_group_id = NULL, updated_at = ? WHERE child_group_id = ?",
		types.KindItem, now, id)
	if err != nil {
		return fmt.Errorf("detaching owner of group %s: %w", id, err)
	}

	in := placeholders(len(ids))
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM modifiers WHERE group_id IN ("+in+")", idArgs(ids)...); err != nil {
		return fmt.Errorf("deleting modifiers of group %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM modifier_groups WHERE group_id IN ("+in+")", idArgs(ids)...); err != nil {
		return fmt.Errorf("deleting group %s: %w", id, err)
	}

	return tx.Commit()
}

// PreviewDelete reports what DeleteGroup would remove, without mutating.
func (b *Backend) PreviewDelete(ctx context.Context, id string) (types.DeletePreview, error) {
	var preview types.DeletePreview
	db, err := b.handle()
	if err != nil {
		return preview, err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return preview, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"SELECT name FROM modifier_groups WHERE group_id = ?", id).Scan(&preview.GroupName)
	if err == sql.ErrNoRows {
		return preview, fmt.Errorf("group %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return preview, fmt.Errorf("previewing delete of %s: %w", id, err)
	}

	ids, err := subtreeGroupIDs(ctx, tx, id)
	if err != nil {
		return preview, err
	}
	preview.GroupCount = len(ids)

	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM modifiers WHERE group_id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...).Scan(&preview.ModifierCount)
	if err != nil {
		return preview, fmt.Errorf("counting modifiers under %s: %w", id, err)
	}
	return preview, nil
}

// subtreeGroupIDs collects the root plus every group reachable from it.
// Returns ErrNotFound for an unknown root.
func subtreeGroupIDs(ctx context.Context, tx *sql.Tx, rootID string) ([]string, error) {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM modifier_groups WHERE group_id = ?", rootID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", rootID, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking group %s: %w", rootID, err)
	}

	rows, err := tx.QueryContext(ctx, subtreeCTE+" SELECT group_id FROM subtree", rootID)
	if err != nil {
		return nil, fmt.Errorf("walking subtree of %s: %w", rootID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nextTopLevelOrder returns one past the highest sort order among groups
// not owned by any modifier.
func nextTopLevelOrder(ctx context.Context, tx *sql.Tx) (int, error) {
	var next int
	err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order) + 1, 0)
	    FROM modifier_groups
	    WHERE group_id NOT IN (
	        SELECT child_group_id FROM modifiers WHERE child_group_id IS NOT NULL
	    )`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing top-level order: %w", err)
	}
	return next, nil
}

// requireUnoccupied verifies the modifier exists and owns no child group.
func requireUnoccupied(ctx context.Context, tx *sql.Tx, modifierID string) error {
	var child sql.NullString
	err := tx.QueryRowContext(ctx,
		"SELECT child_group_id FROM modifiers WHERE modifier_id = ?", modifierID).Scan(&child)
	if err == sql.ErrNoRows {
		return fmt.Errorf("modifier %s: %w", modifierID, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking modifier %s: %w", modifierID, err)
	}
	if child.Valid && child.String != "" {
		return fmt.Errorf("modifier %s: %w", modifierID, types.ErrChildOccupied)
	}
	return nil
}
