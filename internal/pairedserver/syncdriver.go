package pairedserver

import (
	"context"
	"time"

	"github.com/erigontech/pairedstore/internal/fault"
)

// runSyncDriver is the sender side of the sync handshake: it walks the
// dirty tracker built up while we were Standalone and replays each
// block to the peer that just called our TriggerSync handler.
//
// It follows a release-during-RPC, reacquire-for-next-index pattern
// while there is bulk replay to do: stateLock is held only long enough
// to read one dirty address, never across the network call, so
// concurrent client Writes are never blocked behind a slow peer.
//
// Once the tracker looks drained, that's no longer true: from the
// final "no more entries" check through FinishSync through the state
// flip and tracker.Clear, the exclusive lock is held continuously so a
// write landing in that window blocks until the transition finishes
// rather than being marked dirty against a tracker that's about to be
// cleared out from under it.
//
// On any RPC failure the driver simply stops, leaving us Standalone;
// the next TriggerSync (from a retrying recovery loop) starts a fresh
// attempt.
func (c *Core) runSyncDriver(ctx context.Context, syncID int32) {
	i := 0
	for {
		c.mu.RLock()
		if c.state != Standalone {
			c.mu.RUnlock()
			return
		}
		if i >= c.tracker.Len() {
			c.mu.RUnlock()
			break
		}
		addr := c.tracker.At(i)
		c.mu.RUnlock()

		block, err := c.store.Read(addr)
		if err != nil {
			c.logger.Warn("[pairedserver] sync driver: local read failed, aborting sync", "addr", addr, "err", err)
			return
		}
		if err := c.client.SyncBlock(ctx, syncID, addr, block); err != nil {
			c.logger.Warn("[pairedserver] sync driver: peer rejected block, aborting sync", "addr", addr, "err", err)
			return
		}
		if err := c.fault.Hit(fault.PointMidSync); err != nil {
			c.logger.Warn("[pairedserver] sync driver: fault injected mid-sync, aborting sync", "addr", addr, "err", err)
			return
		}
		i++
	}

	c.mu.Lock()
	if c.state != Standalone {
		c.mu.Unlock()
		return
	}
	// A write can have landed between the last RUnlock above and this
	// Lock; catch it up under the same exclusive lock we now hold
	// through the rest of the handshake, so total below always covers
	// everything that's actually dirty.
	for i < c.tracker.Len() {
		addr := c.tracker.At(i)
		block, err := c.store.Read(addr)
		if err != nil {
			c.logger.Warn("[pairedserver] sync driver: local read failed, aborting sync", "addr", addr, "err", err)
			c.mu.Unlock()
			return
		}
		if err := c.client.SyncBlock(ctx, syncID, addr, block); err != nil {
			c.logger.Warn("[pairedserver] sync driver: peer rejected block, aborting sync", "addr", addr, "err", err)
			c.mu.Unlock()
			return
		}
		if err := c.fault.Hit(fault.PointMidSync); err != nil {
			c.logger.Warn("[pairedserver] sync driver: fault injected mid-sync, aborting sync", "addr", addr, "err", err)
			c.mu.Unlock()
			return
		}
		i++
	}
	total := uint64(c.tracker.Len())

	if err := c.fault.Hit(fault.PointPreFinishSync); err != nil {
		c.logger.Warn("[pairedserver] sync driver: fault injected before finish, aborting sync", "err", err)
		c.mu.Unlock()
		return
	}

	if err := c.client.FinishSync(ctx, syncID, total); err != nil {
		c.logger.Warn("[pairedserver] sync driver: FinishSync rejected, staying standalone", "err", err)
		c.mu.Unlock()
		return
	}

	c.state = Normal
	c.tracker.Clear()
	c.mu.Unlock()

	c.logger.Info("[pairedserver] sync driver: peer caught up, resuming Normal", "sync_id", syncID, "blocks", total)
}

// recoverySnapshot is a small helper used by RunRecoveryLoop to check
// progress without re-locking recoveryMu from outside the package.
func (c *Core) recoverySnapshot() RecoveryState {
	c.recoveryMu.Lock()
	defer c.recoveryMu.Unlock()
	if c.recovery == nil {
		return RecoveryState{}
	}
	return *c.recovery
}

func (c *Core) beginRecovery(syncID int32) {
	c.recoveryMu.Lock()
	c.recovery = &RecoveryState{SyncID: syncID, LastProgress: time.Now()}
	c.recoveryMu.Unlock()
}
