package sqlite

// Schema DDL. Nesting is stored on the owning modifier: a non-null
// child_group_id marks the modifier as a choice and the referenced group
// as nested; groups referenced by no modifier are top-level.
const (
	createModifierGroups = `CREATE TABLE IF NOT EXISTS modifier_groups (
    group_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    min_selections INTEGER NOT NULL DEFAULT 0,
    max_selections INTEGER NOT NULL DEFAULT 0,
    is_required INTEGER NOT NULL DEFAULT 0,
    allow_stacking INTEGER NOT NULL DEFAULT 0,
    pricing TEXT,
    exclusion_key TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createModifiers = `CREATE TABLE IF NOT EXISTS modifiers (
    modifier_id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price_cents INTEGER NOT NULL DEFAULT 0,
    kind TEXT NOT NULL,
    child_group_id TEXT,
    pre_modifiers TEXT,
    is_default INTEGER NOT NULL DEFAULT 0,
    ingredient_id TEXT NOT NULL DEFAULT '',
    printer_routing TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (group_id) REFERENCES modifier_groups(group_id),
    FOREIGN KEY (child_group_id) REFERENCES modifier_groups(group_id)
);`

	createIngredients = `CREATE TABLE IF NOT EXISTS ingredients (
    ingredient_id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);`
)

const (
	idxModifiersGroup = `CREATE INDEX IF NOT EXISTS idx_modifiers_group ON modifiers(group_id);`
	// One owner per nested group.
	idxModifiersChild = `CREATE UNIQUE INDEX IF NOT EXISTS idx_modifiers_child
    ON modifiers(child_group_id) WHERE child_group_id IS NOT NULL;`
	idxGroupsSort = `CREATE INDEX IF NOT EXISTS idx_groups_sort ON modifier_groups(sort_order);`
)

// schemaDDL lists every statement in dependency order.
var schemaDDL = []string{
	createModifierGroups,
	createModifiers,
	createIngredients,
	idxModifiersGroup,
	idxModifiersChild,
	idxGroupsSort,
}

// subtreeCTE selects every group id reachable from the ? root through
// choice modifiers, the root included. Prepend to a query that consumes
// the subtree table.
const subtreeCTE = `WITH RECURSIVE subtree(group_id) AS (
    SELECT ?
    UNION
    SELECT m.child_group_id FROM modifiers m
    JOIN subtree s ON m.group_id = s.group_id
    WHERE m.child_group_id IS NOT NULL
)`
