package types

// Modifier kinds. An item is a plain selectable option; a choice opens a
// nested modifier group via ChildGroupID. The pairing is validated so a
// choice without a child group (or an item with one) is rejected.
const (
	KindItem   = "item"
	KindChoice = "choice"
)

// validKinds is the set of recognized modifier kinds.
var validKinds = map[string]bool{
	KindItem:   true,
	KindChoice: true,
}

// PreModifierOption is one pre-modifier toggle ("No", "Lite", "On Side",
// "Extra") with the price adjustment charged when a guest applies it.
type PreModifierOption struct {
	Allowed         bool  `json:"allowed"`
	ExtraPriceCents int64 `json:"extra_price_cents"`
}

// PreModifiers holds the four pre-modifier toggles a modifier can offer.
type PreModifiers struct {
	No     PreModifierOption `json:"no"`
	Lite   PreModifierOption `json:"lite"`
	OnSide PreModifierOption `json:"on_side"`
	Extra  PreModifierOption `json:"extra"`
}

// Modifier is a selectable option within a ModifierGroup. Containment is the
// ownership relation: a modifier belongs to exactly one group, with no back
// pointer. Prices are integer cents.
type Modifier struct {
	ModifierID     string       `json:"modifier_id"`
	Name           string       `json:"name"`
	PriceCents     int64        `json:"price_cents"`
	Kind           string       `json:"kind"`
	ChildGroupID   string       `json:"child_group_id,omitempty"` // choice kind only
	PreModifiers   PreModifiers `json:"pre_modifiers"`
	IsDefault      bool         `json:"is_default"`
	IngredientID   string       `json:"ingredient_id,omitempty"` // weak reference, lookup only
	PrinterRouting string       `json:"printer_routing,omitempty"` // opaque pass-through
	SortOrder      int          `json:"sort_order"`
}

// IsChoice reports whether the modifier opens a nested group.
func (m *Modifier) IsChoice() bool {
	return m.Kind == KindChoice
}

// Validate checks structural well-formedness. The kind/child-group pairing
// must be consistent: only a choice carries a child group, and every choice
// carries one.
func (m *Modifier) Validate() error {
	if m.Name == "" {
		return ErrInvalidName
	}
	if !validKinds[m.Kind] {
		return ErrInvalidKind
	}
	if m.Kind == KindChoice && m.ChildGroupID == "" {
		return ErrInvalidData
	}
	if m.Kind == KindItem && m.ChildGroupID != "" {
		return ErrInvalidData
	}
	return nil
}

// Clone returns a deep copy of the modifier.
func (m *Modifier) Clone() *Modifier {
	c := *m
	return &c
}
