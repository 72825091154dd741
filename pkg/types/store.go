package types

import "context"

// DeletePreview reports what a cascading delete would remove, without
// mutating anything. GroupCount includes the group itself.
type DeletePreview struct {
	GroupCount    int    `json:"group_count"`
	ModifierCount int    `json:"modifier_count"`
	GroupName     string `json:"group_name"`
}

// ReorderEntry is one id/sort-order pair of a bulk reorder. All entries of
// one call share a single parent scope (the top-level list, or one group's
// modifier list).
type ReorderEntry struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// GroupPatch is a partial update of a ModifierGroup. Nil fields are left
// unchanged.
type GroupPatch struct {
	Name          *string
	DisplayName   *string
	MinSelections *int
	MaxSelections *int
	IsRequired    *bool
	AllowStacking *bool
	Pricing       *TieredPricingConfig
	ExclusionKey  *string
	SortOrder     *int
}

// ModifierPatch is a partial update of a Modifier. Nil fields are left
// unchanged.
type ModifierPatch struct {
	Name           *string
	PriceCents     *int64
	PreModifiers   *PreModifiers
	IsDefault      *bool
	IngredientID   *string
	PrinterRouting *string
	SortOrder      *int
}

// Store is the external entity store the engine reconciles against. It is
// the authority for entity ids and for structural state; the in-memory tree
// applies every mutation optimistically first and reloads from the store on
// a failed confirmation.
type Store interface {
	// LoadGroups returns every modifier group of the menu item as a flat
	// list. Ownership is implicit: a group referenced by some modifier's
	// ChildGroupID is nested, every other group is top-level.
	LoadGroups(ctx context.Context) ([]*ModifierGroup, error)

	// CreateGroup persists a new group and returns the canonical id the
	// store assigned. When parentModifierID is non-empty the group is
	// attached as that modifier's child group; the store rejects the call
	// with ErrChildOccupied if the modifier already owns one.
	CreateGroup(ctx context.Context, g *ModifierGroup, parentModifierID string) (string, error)

	// UpdateGroup applies a partial field patch to an existing group.
	UpdateGroup(ctx context.Context, id string, patch GroupPatch) error

	// DeleteGroup removes the group and, recursively, every nested child
	// group and all modifiers in the subtree.
	DeleteGroup(ctx context.Context, id string) error

	// PreviewDelete is the read-only variant of DeleteGroup.
	PreviewDelete(ctx context.Context, id string) (DeletePreview, error)

	// CreateModifier persists a new modifier inside the given group and
	// returns the canonical id.
	CreateModifier(ctx context.Context, groupID string, m *Modifier) (string, error)

	// UpdateModifier applies a partial field patch to an existing modifier.
	UpdateModifier(ctx context.Context, id string, patch ModifierPatch) error

	// DeleteModifier removes a single modifier. Deleting a choice modifier
	// promotes its child group to top-level rather than cascading.
	DeleteModifier(ctx context.Context, id string) error

	// Reparent detaches the group from its current owner and attaches it
	// to targetParentModifierID; an empty target promotes it to top-level.
	Reparent(ctx context.Context, groupID, targetParentModifierID string) error

	// Duplicate deep-copies a group and its reachable subtree. The copy is
	// always created top-level; re-nesting is a follow-up Reparent call.
	Duplicate(ctx context.Context, fromGroupID string) (string, error)

	// BulkReorder writes the given sort orders in one operation.
	BulkReorder(ctx context.Context, entries []ReorderEntry) error
}

// IngredientResolver resolves a display label for a modifier's ingredient
// link. Read-only; the engine never writes ingredient data.
type IngredientResolver interface {
	IngredientName(ctx context.Context, ingredientID string) (string, error)
}

// Backend is an attachable entity store. Attach opens resources described
// by the Config; Detach releases them and is idempotent. Seed populates an
// empty store with the demo menu.
type Backend interface {
	Store
	IngredientResolver
	Attach(config Config) error
	Detach() error
	Seed(ctx context.Context) error
}
