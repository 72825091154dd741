package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/platewise/garnish/pkg/types"
)

// Reparent detaches the group from its current owner and attaches it to
// targetParentModifierID; an empty target promotes it to top-level.
// Attaching a group to a modifier inside its own subtree is a cycle and is
// rejected.
func (b *Backend) Reparent(ctx context.Context, groupID, targetParentModifierID string) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	subtree, err := subtreeGroupIDs(ctx, tx, groupID)
	if err != nil {
		return err
	}

	now := timestamp(time.Now())
	if targetParentModifierID != "" {
		var targetGroupID string
		var child sql.NullString
		err = tx.QueryRowContext(ctx,
			"SELECT group_id, child_group_id FROM modifiers WHERE modifier_id = ?",
			targetParentModifierID).Scan(&targetGroupID, &child)
		if err == sql.ErrNoRows {
			return fmt.Errorf("modifier %s: %w", targetParentModifierID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking modifier %s: %w", targetParentModifierID, err)
		}
		if child.Valid && child.String != "" && child.String != groupID {
			return fmt.Errorf("modifier %s: %w", targetParentModifierID, types.ErrChildOccupied)
		}
		for _, id := range subtree {
			if id == targetGroupID {
				return fmt.Errorf("group %s under modifier %s: %w",
					groupID, targetParentModifierID, types.ErrCycle)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE modifiers SET kind = ?, child_group_id = NULL, updated_at = ? WHERE child_group_id = ?",
		types.KindItem, now, groupID)
	if err != nil {
		return fmt.Errorf("detaching group %s: %w", groupID, err)
	}

	if targetParentModifierID == "" {
		order, err := nextTopLevelOrder(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE modifier_groups SET sort_order = ?, updated_at = ? WHERE group_id = ?",
			order, now, groupID)
		if err != nil {
			return fmt.Errorf("promoting group %s: %w", groupID, err)
		}
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE modifiers SET kind = ?, child_group_id = ?, updated_at = ? WHERE modifier_id = ?",
		types.KindChoice, groupID, now, targetParentModifierID)
	if err != nil {
		return fmt.Errorf("attaching group %s: %w", groupID, err)
	}
	return tx.Commit()
}

// groupRow and modifierRow carry raw column values between the read and
// the re-keyed insert of Duplicate.
type groupRow struct {
	id, name, displayName string
	minSel, maxSel        int
	isRequired, stacking  int
	pricing               sql.NullString
	exclusionKey          string
	sortOrder             int
}

type modifierRow struct {
	id, groupID, name string
	priceCents        int64
	kind              string
	childGroupID      sql.NullString
	preMods           sql.NullString
	isDefault         int
	ingredientID      string
	printerRouting    string
	sortOrder         int
}

// Duplicate deep-copies the group and its reachable subtree under fresh
// ids and returns the new root's id. The copy is always top-level.
func (b *Backend) Duplicate(ctx context.Context, fromGroupID string) (string, error) {
	db, err := b.handle()
	if err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	subtree, err := subtreeGroupIDs(ctx, tx, fromGroupID)
	if err != nil {
		return "", err
	}

	groups, modifiers, err := readSubtree(ctx, tx, subtree)
	if err != nil {
		return "", err
	}

	groupIDMap := make(map[string]string, len(groups))
	for _, g := range groups {
		groupIDMap[g.id] = generateUUID()
	}

	now := timestamp(time.Now())
	rootOrder, err := nextTopLevelOrder(ctx, tx)
	if err != nil {
		return "", err
	}

	for _, g := range groups {
		order := g.sortOrder
		if g.id == fromGroupID {
			order = rootOrder
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO modifier_groups
		    (group_id, name, display_name, min_selections, max_selections,
		     is_required, allow_stacking, pricing, exclusion_key, sort_order,
		     created_at, updated_at)
		    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			groupIDMap[g.id], g.name, g.displayName, g.minSel, g.maxSel,
			g.isRequired, g.stacking, g.pricing, g.exclusionKey, order, now, now)
		if err != nil {
			return "", fmt.Errorf("copying group %s: %w", g.id, err)
		}
	}

	for _, m := range modifiers {
		var child any
		if m.childGroupID.Valid && m.childGroupID.String != "" {
			mapped, ok := groupIDMap[m.childGroupID.String]
			if !ok {
				return "", fmt.Errorf("group %s: %w", m.childGroupID.String, types.ErrNotFound)
			}
			child = mapped
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO modifiers
		    (modifier_id, group_id, name, price_cents, kind, child_group_id,
		     pre_modifiers, is_default, ingredient_id, printer_routing,
		     sort_order, created_at, updated_at)
		    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			generateUUID(), groupIDMap[m.groupID], m.name, m.priceCents,
			m.kind, child, m.preMods, m.isDefault, m.ingredientID,
			m.printerRouting, m.sortOrder, now, now)
		if err != nil {
			return "", fmt.Errorf("copying modifier %s: %w", m.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing duplicate: %w", err)
	}
	return groupIDMap[fromGroupID], nil
}

// BulkReorder writes the given sort orders in one transaction. Each id may
// name a group or a modifier.
func (b *Backend) BulkReorder(ctx context.Context, entries []types.ReorderEntry) error {
	db, err := b.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := timestamp(time.Now())
	for _, e := range entries {
		res, err := tx.ExecContext(ctx,
			"UPDATE modifier_groups SET sort_order = ?, updated_at = ? WHERE group_id = ?",
			e.SortOrder, now, e.ID)
		if err != nil {
			return fmt.Errorf("reordering %s: %w", e.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		res, err = tx.ExecContext(ctx,
			"UPDATE modifiers SET sort_order = ?, updated_at = ? WHERE modifier_id = ?",
			e.SortOrder, now, e.ID)
		if err != nil {
			return fmt.Errorf("reordering %s: %w", e.ID, err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("entity %s: %w", e.ID, types.ErrNotFound)
		}
	}
	return tx.Commit()
}

// readSubtree loads the raw group and modifier rows of the given groups.
func readSubtree(ctx context.Context, tx *sql.Tx, ids []string) ([]groupRow, []modifierRow, error) {
	in := placeholders(len(ids))

	rows, err := tx.QueryContext(ctx, `SELECT group_id, name, display_name,
	    min_selections, max_selections, is_required, allow_stacking,
	    pricing, exclusion_key, sort_order
	    FROM modifier_groups WHERE group_id IN (`+in+`)`, idArgs(ids)...)
	if err != nil {
		return nil, nil, fmt.Errorf("reading subtree groups: %w", err)
	}
	defer rows.Close()

	var groups []groupRow
	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.id, &g.name, &g.displayName, &g.minSel,
			&g.maxSel, &g.isRequired, &g.stacking, &g.pricing,
			&g.exclusionKey, &g.sortOrder); err != nil {
			return nil, nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	mrows, err := tx.QueryContext(ctx, `SELECT modifier_id, group_id, name,
	    price_cents, kind, child_group_id, pre_modifiers, is_default,
	    ingredient_id, printer_routing, sort_order
	    FROM modifiers WHERE group_id IN (`+in+`) ORDER BY group_id, sort_order`,
		idArgs(ids)...)
	if err != nil {
		return nil, nil, fmt.Errorf("reading subtree modifiers: %w", err)
	}
	defer mrows.Close()

	var modifiers []modifierRow
	for mrows.Next() {
		var m modifierRow
		if err := mrows.Scan(&m.id, &m.groupID, &m.name, &m.priceCents,
			&m.kind, &m.childGroupID, &m.preMods, &m.isDefault,
			&m.ingredientID, &m.printerRouting, &m.sortOrder); err != nil {
			return nil, nil, err
		}
		modifiers = append(modifiers, m)
	}
	return groups, modifiers, mrows.Err()
}
