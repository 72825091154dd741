package sync

import (
	"context"
	"time"

	"github.com/platewise/garnish/pkg/types"
)

// SetPricing applies the pricing config locally at once and schedules the
// store write behind a trailing debounce window: rapid edits to the same
// group keep resetting the timer and only the final config is sent. A
// rejected write fails open — the local config is kept so the operator's
// work survives a flaky backend — and the failure is logged and notified.
func (r *Reconciler) SetPricing(ctx context.Context, groupID string, cfg *types.TieredPricingConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.forest.SetPricing(groupID, cfg); err != nil {
		return err
	}

	if p, ok := r.pending[groupID]; ok {
		p.timer.Stop()
		p.cfg = cfg.Clone()
		p.ctx = ctx
		p.timer.Reset(r.debounce)
		return nil
	}
	p := &pendingPricing{cfg: cfg.Clone(), ctx: ctx}
	p.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		r.flushPricingLocked(groupID)
		r.mu.Unlock()
	})
	r.pending[groupID] = p
	return nil
}

// Flush sends every debounced pricing config immediately, without waiting
// out the remaining windows.
func (r *Reconciler) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for groupID, p := range r.pending {
		p.timer.Stop()
		r.flushPricingLocked(groupID)
	}
}

// flushPricingLocked dispatches the pending config for one group. Caller
// holds the lock; no-op when the entry was already flushed.
func (r *Reconciler) flushPricingLocked(groupID string) {
	p, ok := r.pending[groupID]
	if !ok {
		return
	}
	delete(r.pending, groupID)

	cfg := p.cfg
	ctx := p.ctx
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := r.store.UpdateGroup(ctx, groupID, types.GroupPatch{Pricing: cfg})
		if err == nil {
			return
		}
		// Fail open: keep the optimistic config, surface the failure.
		r.log.Warn("pricing update rejected, keeping local config",
			"group_id", groupID, "error", err)
		r.notify("group.pricing", err)
	}()
}
