// Package pairedserver is the shared replication state machine
// the locking discipline, the receive-side of the
// sync/recovery protocol, and the role-specific handlers built on top
// of it in primary.go and backup.go.
//
// Rather than modeling Primary and Backup as an inheritance hierarchy,
// both are distinct types that embed *Core (the composed PairedState
// value carrying stateLock, the DirtyTracker, and RecoveryState) and
// implement pairedrpc.PairedServer by dispatching on it
// itself.
package pairedserver

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/dirty"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
	"github.com/erigontech/pairedstore/internal/replclient"
)

const blockSize = blockio.BlockSize

// Core is the state machine and locking discipline shared by
// PrimaryServer and BackupServer. Exported fields are none: both role
// types live in this package and reach into Core directly.
type Core struct {
	mu      sync.RWMutex // stateLock: guards state and tracker transitions
	state   State
	tracker *dirty.Tracker

	recoveryMu sync.Mutex // recoveryLock: guards recovery during SyncBlock/FinishSync
	recovery   *RecoveryState

	store  *blockio.Store
	client *replclient.Client
	logger log.Logger
	fault  fault.Injector
	rng    *rand.Rand

	// bgCtx outlives any single RPC; the sync driver detached by
	// TriggerSync's handler runs under it so the driver survives past
	// the RPC response that kicked it off.
	bgCtx context.Context

	// exitFn is defaultExit (a panic carrying exitPanic) in production;
	// tests override it to observe an invariant violation instead of
	// killing the test binary.
	exitFn func(code int)

	// onBecomeNormal fires after a Recovering -> Normal transition.
	// BackupServer sets this to (re)start its heartbeat loop
	// restart its heartbeat loop; PrimaryServer leaves it nil.
	onBecomeNormal func()
}

// Config bundles Core's constructor arguments.
type Config struct {
	Store   *blockio.Store
	Client  *replclient.Client
	Logger  log.Logger
	Fault   fault.Injector
	BgCtx   context.Context
	ExitFn  func(code int)
	Initial State
}

func newCore(cfg Config) *Core {
	if cfg.Fault == nil {
		cfg.Fault = fault.Noop{}
	}
	if cfg.ExitFn == nil {
		cfg.ExitFn = defaultExit
	}
	if cfg.BgCtx == nil {
		cfg.BgCtx = context.Background()
	}
	return &Core{
		state:   cfg.Initial,
		tracker: dirty.New(),
		store:   cfg.Store,
		client:  cfg.Client,
		logger:  cfg.Logger,
		fault:   cfg.Fault,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		bgCtx:   cfg.BgCtx,
		exitFn:  cfg.ExitFn,
	}
}

// State returns the current replication state.
func (c *Core) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// DirtyLen reports how many addresses are currently tracked dirty;
// exposed for tests and operational introspection.
func (c *Core) DirtyLen() int {
	return c.tracker.Len()
}

// invariantViolation logs msg, triggers exitFn (a panic in
// production), and returns the InvariantViolation error for the
// caller to route through toStatus. In production exitFn never
// returns, so the returned error is only observed by tests that
// substitute a non-terminating exitFn.
func (c *Core) invariantViolation(msg string, kv ...any) error {
	c.logger.Error("[pairedserver] invariant violation: "+msg, kv...)
	c.exitFn(1)
	return &InvariantViolation{Msg: msg}
}

func defaultExit(code int) {
	panic(exitPanic{code})
}

// exitPanic lets main recover a clean os.Exit instead of unwinding
// through defers that don't expect a hard stop; see cmd/server. Only a
// panic on the goroutine that runs cmd/server's deferred recover is
// converted that way; one raised in an RPC handler or the recovery
// loop goroutine is not recovered and ends the process as an ordinary
// Go panic.
type exitPanic struct{ Code int }

// ExitCode lets callers recover an exitPanic without importing this
// package's unexported type, via a plain interface check.
func (e exitPanic) ExitCode() int { return e.Code }

// Ping is a plain liveness check: any reachable role answers ok
// regardless of state.
func (c *Core) Ping(context.Context, *pairedrpc.Empty) (*pairedrpc.Empty, error) {
	return &pairedrpc.Empty{}, nil
}

// TriggerSync is the receive side of the sync handshake
// the caller is asking us — the node it believes is
// healthy — to start sending it our dirty blocks. We must be in or
// enter Standalone, detach a sync driver, and respond immediately so
// the RPC doesn't block on however long the sync takes.
//
// Receiving TriggerSync while we are ourselves Recovering means both
// nodes are mid-recovery: an unrecoverable double failure.
func (c *Core) TriggerSync(ctx context.Context, req *pairedrpc.TriggerSyncRequest) (*pairedrpc.Empty, error) {
	c.mu.Lock()
	if c.state == Recovering {
		c.mu.Unlock()
		return nil, toStatus(c.invariantViolation("double-failure: received TriggerSync while Recovering", "sync_id", req.SyncId))
	}
	c.state = Standalone
	c.mu.Unlock()

	go c.runSyncDriver(c.bgCtx, req.SyncId)
	return &pairedrpc.Empty{}, nil
}

// SyncBlock is the receive side of one dirty block in a sync stream.
// It only applies if the receiver is Recovering and the sync_id
// matches the RecoveryState created by our own TriggerSync call;
// anything else is a stale message from a superseded attempt.
func (c *Core) SyncBlock(ctx context.Context, req *pairedrpc.SyncBlockRequest) (*pairedrpc.Empty, error) {
	if c.State() != Recovering {
		return nil, toStatus(staleSync())
	}

	c.recoveryMu.Lock()
	if c.recovery == nil || c.recovery.SyncID != req.SyncId {
		c.recoveryMu.Unlock()
		return nil, toStatus(staleSync())
	}
	c.recoveryMu.Unlock()

	if err := c.store.Write(req.Addr, req.Data); err != nil {
		return nil, toStatus(&wrongBlockSize{got: len(req.Data), want: blockSize})
	}

	c.recoveryMu.Lock()
	// Re-check under the lock: a concurrent fresh TriggerSync could
	// have replaced RecoveryState while we were writing to the store.
	if c.recovery == nil || c.recovery.SyncID != req.SyncId {
		c.recoveryMu.Unlock()
		return nil, toStatus(staleSync())
	}
	c.recovery.BlocksReceived++
	c.recovery.LastProgress = time.Now()
	c.recoveryMu.Unlock()

	return &pairedrpc.Empty{}, nil
}

// FinishSync is the receive side of the end-of-stream signal: if the
// declared total matches what we actually received, we are caught up
// and transition Recovering -> Normal; otherwise the stream was
// dropped and we report ABORTED, staying Recovering so the sender
// (still Standalone) can retry later.
func (c *Core) FinishSync(ctx context.Context, req *pairedrpc.FinishSyncRequest) (*pairedrpc.Empty, error) {
	if c.State() != Recovering {
		return nil, toStatus(staleSync())
	}

	c.recoveryMu.Lock()
	if c.recovery == nil || c.recovery.SyncID != req.SyncId {
		c.recoveryMu.Unlock()
		return nil, toStatus(staleSync())
	}
	got := c.recovery.BlocksReceived
	if got != req.TotalBlocks {
		c.recoveryMu.Unlock()
		return nil, toStatus(redirect("incomplete sync"))
	}
	c.recovery.Done = true
	c.recoveryMu.Unlock()

	c.mu.Lock()
	c.state = Normal
	c.mu.Unlock()

	c.logger.Info("[pairedserver] sync complete, now Normal", "sync_id", req.SyncId, "blocks", got)
	if c.onBecomeNormal != nil {
		c.onBecomeNormal()
	}
	return &pairedrpc.Empty{}, nil
}
