package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifierValidate(t *testing.T) {
	tests := []struct {
		name    string
		mod     Modifier
		wantErr error
	}{
		{
			name: "valid item",
			mod:  Modifier{ModifierID: "m1", Name: "Cheddar", Kind: KindItem},
		},
		{
			name: "valid choice with child group",
			mod:  Modifier{ModifierID: "m2", Name: "Toasted?", Kind: KindChoice, ChildGroupID: "g2"},
		},
		{
			name:    "empty name rejected",
			mod:     Modifier{ModifierID: "m3", Kind: KindItem},
			wantErr: ErrInvalidName,
		},
		{
			name:    "unknown kind rejected",
			mod:     Modifier{ModifierID: "m4", Name: "Swiss", Kind: "label"},
			wantErr: ErrInvalidKind,
		},
		{
			name:    "choice without child group rejected",
			mod:     Modifier{ModifierID: "m5", Name: "Toasted?", Kind: KindChoice},
			wantErr: ErrInvalidData,
		},
		{
			name:    "item with child group rejected",
			mod:     Modifier{ModifierID: "m6", Name: "Swiss", Kind: KindItem, ChildGroupID: "g2"},
			wantErr: ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mod.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestModifierValidationClassMatching(t *testing.T) {
	// Specific validation errors must also match the broad class.
	m := Modifier{ModifierID: "m1", Kind: KindItem}
	assert.ErrorIs(t, m.Validate(), ErrValidation)
}

func TestModifierClone(t *testing.T) {
	m := &Modifier{
		ModifierID: "m1",
		Name:       "Bacon",
		PriceCents: 150,
		Kind:       KindItem,
		PreModifiers: PreModifiers{
			Extra: PreModifierOption{Allowed: true, ExtraPriceCents: 75},
		},
		IsDefault: true,
	}

	c := m.Clone()
	assert.Equal(t, m, c)

	c.Name = "Turkey Bacon"
	c.PreModifiers.Extra.ExtraPriceCents = 0
	assert.Equal(t, "Bacon", m.Name)
	assert.Equal(t, int64(75), m.PreModifiers.Extra.ExtraPriceCents)
}
