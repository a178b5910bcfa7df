package pairedserver

import (
	"context"

	"github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
	"github.com/erigontech/pairedstore/internal/replclient"
)

// PrimaryServer implements pairedrpc.PairedServer for the node holding
// the primary role. Reads and writes serve locally in Normal and
// Standalone; in Normal a write also replicates to the backup before
// the caller is acknowledged, and a replication failure demotes to
// Standalone rather than failing the client's write. Recovering
// rejects client traffic outright: a recovering primary isn't
// authoritative until its sync completes.
type PrimaryServer struct {
	pairedrpc.UnimplementedPairedServer
	*Core
}

// NewPrimary builds a PrimaryServer starting in the given state.
// cmd/server passes Standalone on a normal start (the backup is synced
// in once it comes up) and Recovering when started with --recover;
// tests may also start it Normal.
func NewPrimary(store *blockio.Store, client *replclient.Client, logger log.Logger, injector fault.Injector, bgCtx context.Context, initial State) *PrimaryServer {
	return &PrimaryServer{Core: newCore(Config{
		Store:   store,
		Client:  client,
		Logger:  logger,
		Fault:   injector,
		BgCtx:   bgCtx,
		Initial: initial,
	})}
}

// Read serves locally in Normal and Standalone; a Recovering primary
// isn't caught up yet and redirects the caller to the backup.
func (p *PrimaryServer) Read(ctx context.Context, req *pairedrpc.ReadRequest) (*pairedrpc.ReadReply, error) {
	if p.State() == Recovering {
		return nil, toStatus(redirect("switch nodes"))
	}
	data, err := p.store.Read(req.Addr)
	if err != nil {
		return nil, toStatus(argumentErr(err.Error()))
	}
	return &pairedrpc.ReadReply{Data: data}, nil
}

// Write applies the block locally, then — in Normal — replicates it
// before acknowledging. A replication failure does not fail the
// client's write: we've already committed locally, so we mark the
// address dirty and demote to Standalone instead. In Standalone the
// shared lock is held across the local write and the mark so a
// concurrent sync completion can't elide it; in Recovering writes are
// rejected outright.
func (p *PrimaryServer) Write(ctx context.Context, req *pairedrpc.WriteRequest) (*pairedrpc.Empty, error) {
	if len(req.Data) != blockSize {
		return nil, toStatus(&wrongBlockSize{got: len(req.Data), want: blockSize})
	}

	if p.State() == Recovering {
		return nil, toStatus(redirect("switch nodes"))
	}

	p.mu.RLock()
	state := p.state
	if state == Standalone {
		// Hold the shared lock across the local write and mark: a
		// concurrent Standalone -> Normal transition (end of sync)
		// must not complete while this write is still in flight,
		// or the mark would be lost and never replayed.
		if err := p.store.Write(req.Addr, req.Data); err != nil {
			p.mu.RUnlock()
			return nil, toStatus(argumentErr(err.Error()))
		}
		if err := p.fault.Hit(fault.PointPostLocalWrite); err != nil {
			p.mu.RUnlock()
			return nil, toStatus(transientErr(err.Error()))
		}
		p.tracker.Mark(req.Addr)
		p.mu.RUnlock()
		return &pairedrpc.Empty{}, nil
	}
	p.mu.RUnlock()

	// Normal: write locally first, then replicate outside any lock.
	if err := p.store.Write(req.Addr, req.Data); err != nil {
		return nil, toStatus(argumentErr(err.Error()))
	}
	if err := p.fault.Hit(fault.PointPostLocalWrite); err != nil {
		return nil, toStatus(transientErr(err.Error()))
	}

	if err := p.client.BackupWrite(ctx, req.Addr, req.Data); err != nil {
		p.logger.Warn("[primary] backup write failed, going standalone", "addr", req.Addr, "err", err)
		p.mu.Lock()
		p.state = Standalone
		p.mu.Unlock()
		p.tracker.Mark(req.Addr)
		return &pairedrpc.Empty{}, nil
	}

	return &pairedrpc.Empty{}, nil
}

// Heartbeat is the backup's probe of the primary; the primary never
// probes back. In Normal it is the routine probe and we just answer
// ok. In Standalone it means the backup is running its probe while we
// serve clients alone: a genuine split-brain signal, so we exit
// fatally. In Recovering we tell the backup to take over.
func (p *PrimaryServer) Heartbeat(ctx context.Context, req *pairedrpc.Empty) (*pairedrpc.Empty, error) {
	switch p.State() {
	case Normal:
		return &pairedrpc.Empty{}, nil
	case Standalone:
		return nil, toStatus(p.invariantViolation("heartbeat received while primary is standalone"))
	default: // Recovering
		return nil, toStatus(redirect("recovery in progress"))
	}
}

// BackupWrite is never sent to a primary; the backup is the only role
// that receives replicated writes.
func (p *PrimaryServer) BackupWrite(context.Context, *pairedrpc.WriteRequest) (*pairedrpc.Empty, error) {
	return nil, toStatus(argumentErr("BackupWrite sent to primary"))
}
