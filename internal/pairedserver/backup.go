package pairedserver

import (
	"context"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/heartbeat"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
	"github.com/erigontech/pairedstore/internal/replclient"
)

// BackupServer implements pairedrpc.PairedServer for the node holding
// the backup role. In Normal it only accepts BackupWrite from the
// primary and probes the primary's liveness on a timer; a missed
// heartbeat demotes it to Standalone, at which point it starts serving
// client Read/Write directly and tracking its own dirty set for the
// eventual sync back to the primary.
type BackupServer struct {
	pairedrpc.UnimplementedPairedServer
	*Core

	hb *heartbeat.Manager
}

// NewBackup builds a BackupServer. If initial is Normal, the caller is
// expected to call StartHeartbeat once the bgCtx is ready. cmd/server
// always starts a backup Recovering, so the heartbeat there starts
// from the FinishSync hook instead; Normal is accepted for tests that
// want to start past that step.
func NewBackup(store *blockio.Store, client *replclient.Client, logger log.Logger, injector fault.Injector, bgCtx context.Context, initial State, hbInterval time.Duration) *BackupServer {
	b := &BackupServer{Core: newCore(Config{
		Store:   store,
		Client:  client,
		Logger:  logger,
		Fault:   injector,
		BgCtx:   bgCtx,
		Initial: initial,
	})}
	b.onBecomeNormal = b.StartHeartbeat
	b.hb = heartbeat.NewManager(client, hbInterval, b.onHeartbeatLost, logger)
	return b
}

// StartHeartbeat (re)starts the periodic primary-liveness probe; called
// once at startup if we begin Normal, and again every time a sync
// completes and we return to Normal from Recovering.
func (b *BackupServer) StartHeartbeat() {
	b.hb.Start(b.bgCtx)
}

// onHeartbeatLost is the heartbeat manager's failure callback: the
// primary stopped answering, so we take over serving clients directly.
func (b *BackupServer) onHeartbeatLost() {
	b.mu.Lock()
	if b.state == Normal {
		b.state = Standalone
		b.logger.Warn("[backup] primary heartbeat lost, going standalone")
	}
	b.mu.Unlock()
}

// Read serves only in Standalone, when the backup is the sole
// authoritative copy; in Normal or Recovering the caller must switch
// to the primary.
func (b *BackupServer) Read(ctx context.Context, req *pairedrpc.ReadRequest) (*pairedrpc.ReadReply, error) {
	if b.State() != Standalone {
		return nil, toStatus(redirect("switch nodes"))
	}
	data, err := b.store.Read(req.Addr)
	if err != nil {
		return nil, toStatus(argumentErr(err.Error()))
	}
	return &pairedrpc.ReadReply{Data: data}, nil
}

// Write serves only in Standalone: the shared lock is held across the
// local write and the mark so a concurrent sync completion can't race
// past it and lose the write. Normal or Recovering redirect the caller
// to the primary.
func (b *BackupServer) Write(ctx context.Context, req *pairedrpc.WriteRequest) (*pairedrpc.Empty, error) {
	if len(req.Data) != blockSize {
		return nil, toStatus(&wrongBlockSize{got: len(req.Data), want: blockSize})
	}

	b.mu.RLock()
	if b.state != Standalone {
		b.mu.RUnlock()
		return nil, toStatus(redirect("switch nodes"))
	}
	if err := b.store.Write(req.Addr, req.Data); err != nil {
		b.mu.RUnlock()
		return nil, toStatus(argumentErr(err.Error()))
	}
	b.tracker.Mark(req.Addr)
	b.mu.RUnlock()
	return &pairedrpc.Empty{}, nil
}

// BackupWrite applies one replicated write from the primary. Valid
// only in Normal: in Standalone it means the primary is still alive
// and writing while we believe it's down — split-brain, fatal. In
// Recovering we aren't caught up yet, so we report UNAVAILABLE, which
// sends the primary to Standalone to retry the sync later.
func (b *BackupServer) BackupWrite(ctx context.Context, req *pairedrpc.WriteRequest) (*pairedrpc.Empty, error) {
	if len(req.Data) != blockSize {
		return nil, toStatus(&wrongBlockSize{got: len(req.Data), want: blockSize})
	}

	switch b.State() {
	case Standalone:
		return nil, toStatus(b.invariantViolation("backup_write received while backup is standalone"))
	case Recovering:
		return nil, toStatus(transientErr("recovering"))
	}

	if err := b.fault.Hit(fault.PointPreBackupWrite); err != nil {
		return nil, toStatus(transientErr(err.Error()))
	}
	if err := b.store.Write(req.Addr, req.Data); err != nil {
		return nil, toStatus(argumentErr(err.Error()))
	}
	return &pairedrpc.Empty{}, nil
}

// Heartbeat must never be sent to a backup — it is always the prober,
// never the probed.
func (b *BackupServer) Heartbeat(context.Context, *pairedrpc.Empty) (*pairedrpc.Empty, error) {
	return nil, toStatus(argumentErr("heartbeat sent to backup"))
}
