package types

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure in the engine belongs to one of these
// classes; callers match with errors.Is.
var (
	ErrNotFound   = errors.New("entity not found")
	ErrValidation = errors.New("validation failed")
	ErrCycle      = errors.New("operation would violate the forest invariant")
	ErrConflict   = errors.New("conflicting entity state")
	ErrNetwork    = errors.New("store request failed")
)

// Specific failures wrap their taxonomy class so callers can match either
// the broad class or the exact condition.
var (
	ErrInvalidID        = fmt.Errorf("%w: invalid entity id", ErrValidation)
	ErrInvalidName      = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidData      = fmt.Errorf("%w: invalid entity data", ErrValidation)
	ErrInvalidKind      = fmt.Errorf("%w: unknown modifier kind", ErrValidation)
	ErrInvalidBounds    = fmt.Errorf("%w: invalid selection bounds", ErrValidation)
	ErrInvalidPricing   = fmt.Errorf("%w: invalid tiered pricing config", ErrValidation)
	ErrReorderMismatch  = fmt.Errorf("%w: reorder ids do not match the sibling set", ErrValidation)
	ErrChildOccupied    = fmt.Errorf("%w: modifier already owns a child group", ErrConflict)
	ErrDuplicateName    = fmt.Errorf("%w: duplicate name", ErrConflict)
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
