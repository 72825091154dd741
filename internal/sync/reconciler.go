// Package sync applies mutations optimistically to the in-memory forest and
// reconciles them against the authoritative entity store.
//
// Every mutating operation updates the forest synchronously, then dispatches
// the corresponding store call as an independent asynchronous task; the
// caller is never blocked on confirmation. On success, canonical fields
// (ids) are merged back. On failure, the optimistic branch is discarded and
// the authoritative snapshot is reloaded wholesale — no merge is attempted;
// if the reload itself fails, the last known-good local snapshot is
// restored. Structural operations fail closed this way; pricing-config
// edits fail open (the local value is kept for retry) and are coalesced per
// group by a trailing debounce window.
//
// There is no cancellation token model: a confirmation that lands after a
// subsequent reload is detected by a generation counter and discarded as
// stale. Two reorders racing on the same scope are last-write-wins; the gap
// is documented, not eliminated.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/platewise/garnish/internal/tree"
	"github.com/platewise/garnish/pkg/types"
)

// DefaultDebounce is the trailing window coalescing rapid pricing edits.
const DefaultDebounce = 300 * time.Millisecond

// NotifyFunc receives non-blocking failure notifications (the UI surfaces
// these as toasts; the CLI prints them).
type NotifyFunc func(op string, err error)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconciler) { r.log = log }
}

// WithDebounce overrides the pricing debounce window (tests use short ones).
func WithDebounce(d time.Duration) Option {
	return func(r *Reconciler) { r.debounce = d }
}

// WithNotify sets the failure notification callback.
func WithNotify(fn NotifyFunc) Option {
	return func(r *Reconciler) { r.notify = fn }
}

// Reconciler owns the optimistic forest and its reconciliation against the
// entity store. Single logical writer: mutating methods are dispatched from
// one event loop (or one CLI invocation); confirmations arrive on their own
// goroutines and are serialized internally.
type Reconciler struct {
	mu       sync.Mutex
	forest   *tree.Store
	store    types.Store
	log      *slog.Logger
	notify   NotifyFunc
	debounce time.Duration

	// generation increments on every authoritative reload; confirmations
	// carrying an older generation are stale and discarded.
	generation uint64
	lastGood   *tree.Snapshot

	wg      sync.WaitGroup
	pending map[string]*pendingPricing
}

// pendingPricing is a debounced, not-yet-sent pricing config for one group.
type pendingPricing struct {
	timer *time.Timer
	cfg   *types.TieredPricingConfig
	ctx   context.Context
}

// New returns a Reconciler over an empty forest. Call Load before use.
func New(store types.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		forest:   tree.New(),
		store:    store,
		log:      slog.Default(),
		notify:   func(string, error) {},
		debounce: DefaultDebounce,
		pending:  make(map[string]*pendingPricing),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load pulls the authoritative snapshot and resets the forest to it.
func (r *Reconciler) Load(ctx context.Context) error {
	groups, err := r.store.LoadGroups(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.forest.Load(groups); err != nil {
		return err
	}
	r.lastGood = r.forest.Snapshot()
	r.generation++
	return nil
}

// Forest exposes the optimistic in-memory state. Reads always see the
// latest locally-intended state; callers that need confirmed state call
// Wait first.
func (r *Reconciler) Forest() *tree.Store {
	return r.forest
}

// Wait flushes pending debounced work and blocks until every in-flight
// confirmation has completed. Intended for tests and process shutdown.
func (r *Reconciler) Wait() {
	r.Flush()
	r.wg.Wait()
}

// dispatch runs the store confirmation asynchronously. confirm performs
// the store call(s); merge, when non-nil, folds canonical fields back into
// the forest after success.
func (r *Reconciler) dispatch(ctx context.Context, op string, gen uint64, confirm func(context.Context) error, merge func() error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := confirm(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.generation != gen {
			r.log.Debug("discarding stale confirmation", "op", op, "err", err)
			return
		}
		if err != nil {
			r.rollbackLocked(ctx, op, err)
			return
		}
		if merge != nil {
			if err := merge(); err != nil {
				r.log.Warn("merging canonical fields failed", "op", op, "error", err)
			}
		}
		r.lastGood = r.forest.Snapshot()
	}()
}

// rollbackLocked discards the optimistic branch: the authoritative snapshot
// is reloaded and overwrites local state; when even that fails, the last
// known-good local snapshot is restored. Caller holds the lock.
func (r *Reconciler) rollbackLocked(ctx context.Context, op string, cause error) {
	r.log.Warn("store rejected mutation, rolling back", "op", op, "error", cause)
	r.generation++

	groups, err := r.store.LoadGroups(ctx)
	if err == nil {
		err = r.forest.Load(groups)
	}
	if err != nil {
		r.log.Error("authoritative reload failed, restoring last known-good snapshot",
			"op", op, "error", err)
		if r.lastGood != nil {
			r.forest.Restore(r.lastGood)
		}
	} else {
		r.lastGood = r.forest.Snapshot()
	}
	r.notify(op, cause)
}

// reloadLocked replaces local state with the authoritative snapshot after
// an operation whose canonical result cannot be merged field-wise
// (duplicate assigns fresh ids to a whole subtree). Caller holds the lock.
func (r *Reconciler) reloadLocked(ctx context.Context) error {
	groups, err := r.store.LoadGroups(ctx)
	if err == nil {
		err = r.forest.Load(groups)
	}
	if err != nil {
		return err
	}
	r.generation++
	r.lastGood = r.forest.Snapshot()
	return nil
}
