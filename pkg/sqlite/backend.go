// Package sqlite exposes the factory for the SQLite entity store while
// keeping the implementation internal.
package sqlite

import (
	"github.com/platewise/garnish/internal/sqlite"
	"github.com/platewise/garnish/pkg/types"
)

// NewBackend creates a detached SQLite store; call Attach with a Config
// before use.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".garnish-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Backend {
	return sqlite.NewBackend()
}
