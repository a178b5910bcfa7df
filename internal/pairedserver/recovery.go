package pairedserver

import (
	"context"
	"time"
)

// Recovery timing, named so cmd/server can thread them through as
// flags later if that's ever needed; for now they're fixed.
const (
	RecoveryCheckInterval = 100 * time.Millisecond
	RecoveryTimeout       = 5 * time.Second
)

// RunRecoveryLoop drives the recovering side of the sync handshake: it
// asks the peer to start sending dirty blocks, then waits for either
// completion or an inactivity timeout, retrying with a fresh sync_id
// on timeout. It blocks until the node leaves Recovering or ctx is
// cancelled.
//
// Call this once, right after constructing a Core started in
// Recovering; TriggerSync's peer call is expected to succeed (the peer
// must be reachable for recovery to make sense at all), so a failure
// there is treated as fatal rather than retried.
func (c *Core) RunRecoveryLoop(ctx context.Context) {
	for {
		if c.State() != Recovering {
			return
		}

		syncID := int32(c.rng.Int31())
		c.beginRecovery(syncID)

		if err := c.client.TriggerSync(ctx, syncID); err != nil {
			c.invariantViolation("peer unreachable at start of recovery", "sync_id", syncID, "err", err)
			return
		}
		c.logger.Info("[pairedserver] recovery: triggered sync", "sync_id", syncID)

		if c.awaitSyncOrTimeout(ctx, syncID) {
			return
		}
		// Timed out waiting for progress; loop restarts with a fresh
		// sync_id so a stalled or superseded attempt can't linger.
		c.logger.Warn("[pairedserver] recovery: sync attempt timed out, retrying", "sync_id", syncID)
	}
}

// awaitSyncOrTimeout polls recovery progress until it completes, times
// out from inactivity, or ctx is cancelled. Returns true once the node
// has left Recovering (success or external cancellation); false means
// the caller should retry with a new sync_id.
func (c *Core) awaitSyncOrTimeout(ctx context.Context, syncID int32) bool {
	ticker := time.NewTicker(RecoveryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-ticker.C:
		}

		if c.State() != Recovering {
			return true
		}

		snap := c.recoverySnapshot()
		if snap.SyncID != syncID {
			// A fresh TriggerSync replaced our RecoveryState from
			// underneath us; treat it as someone else's attempt.
			return true
		}
		if snap.Done {
			return true
		}
		if time.Since(snap.LastProgress) > RecoveryTimeout {
			return false
		}
	}
}
