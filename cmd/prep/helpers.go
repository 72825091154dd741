// Shared helpers for prep CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/platewise/garnish/internal/memory"
	"github.com/platewise/garnish/internal/sqlite"
	garnishsync "github.com/platewise/garnish/internal/sync"
	"github.com/platewise/garnish/pkg/types"
)

// attachBackend resolves the data directory, creates the configured
// backend, and attaches it. The caller must defer backend.Detach().
func attachBackend() (types.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: configBackend,
		DataDir: dataDir,
	}
	if cfg.Backend == "" {
		cfg.Backend = defaultBackend
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newBackend picks the store implementation the config names. The memory
// backend holds data only for the process; it is mainly useful for
// scripted demos and tests.
func newBackend(cfg types.Config) (types.Backend, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendMemory:
		return memory.NewBackend(), nil
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}

// newLogger builds the slog logger CLI sessions hand to the reconciler.
// Only warnings and errors reach the terminal.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// runSession attaches the store, loads the forest into a reconciler, runs
// fn, and waits out every confirmation. A store rejection that rolled the
// forest back surfaces as the returned error.
func runSession(fn func(ctx context.Context, r *garnishsync.Reconciler) error) error {
	ctx := context.Background()

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	var storeErr error
	rec := garnishsync.New(backend,
		garnishsync.WithLogger(newLogger()),
		garnishsync.WithNotify(func(op string, err error) {
			storeErr = fmt.Errorf("%s: %w", op, err)
		}))
	if err := rec.Load(ctx); err != nil {
		return fmt.Errorf("load groups: %w", err)
	}

	if err := fn(ctx, rec); err != nil {
		return err
	}

	rec.Wait()
	return storeErr
}

// fail prints the error and exits with the user or system code depending
// on the error class.
func fail(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	if isUserError(err) {
		os.Exit(exitUserError)
	}
	os.Exit(exitSysError)
}

// isUserError classifies errors the operator can fix by changing the
// command, as opposed to environment failures.
func isUserError(err error) bool {
	return errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrValidation) ||
		errors.Is(err, types.ErrCycle) ||
		errors.Is(err, types.ErrConflict)
}

// centsToDollars renders an int64 cent amount as $D.CC.
func centsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
