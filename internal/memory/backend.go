package memory

import (
	"context"
	"fmt"

	"github.com/platewise/garnish/internal/demo"
	"github.com/platewise/garnish/pkg/types"
)

var _ types.Backend = (*Store)(nil)

// NewBackend creates a detached memory backend; call Attach with a Config
// before use. Data lives only for the lifetime of the process.
func NewBackend() *Store {
	return NewStore()
}

// Attach validates the config and marks the store attached. There is no
// durable resource to open; the maps are usable either way, so tests can
// keep constructing stores without a config.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	s.attached = true
	return nil
}

// Detach marks the store detached. Idempotent; the contents are kept so a
// re-attach within the same process sees them again.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
	return nil
}

// Seed populates an empty store with the demo menu. Refuses to run on a
// store that already holds groups.
func (s *Store) Seed(ctx context.Context) error {
	existing, err := s.LoadGroups(ctx)
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
			id, err := s.findModifierByName(groupIDs[d.ParentGroup], d.ParentModifier)
			if err != nil {
				return err
			}
			parentModifierID = id
		}
		id, err := s.CreateGroup(ctx, d.Group, parentModifierID)
		if err != nil {
			return fmt.Errorf("seeding group %s: %w", d.Group.Name, err)
		}
		groupIDs[d.Group.Name] = id
	}

	s.SeedIngredients(demo.Ingredients())
	return nil
}

// findModifierByName resolves one seeded modifier's canonical id.
func (s *Store) findModifierByName(groupID, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return "", fmt.Errorf("group %s: %w", groupID, types.ErrNotFound)
	}
	for _, m := range g.Modifiers {
		if m.Name == name {
			return m.ModifierID, nil
		}
	}
	return "", fmt.Errorf("modifier %s in group %s: %w", name, groupID, types.ErrNotFound)
}
