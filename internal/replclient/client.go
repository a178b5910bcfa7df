// Package replclient is the typed RPC client used both by a node
// calling its peer (BackupWrite, TriggerSync, SyncBlock, FinishSync,
// Heartbeat, Ping) and by cmd/pairctl calling either endpoint directly
// (Read, Write). Every call returns a single error that peer-facing
// callers treat as "the peer did not durably apply this" —
// distinguishing a structured remote response from a dial/transport
// failure is useful for logging only; the replication state machine
// reacts the same way to both.
package replclient

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/erigontech/pairedstore/internal/pairedrpc"
)

// Client wraps a gRPC connection to the peer node.
type Client struct {
	conn *grpc.ClientConn
	rpc  pairedrpc.PairedClient
}

// New wraps an already-dialed connection to the peer.
func New(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn, rpc: pairedrpc.NewPairedClient(conn)}
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Ping is a liveness check, used at startup to confirm the peer named
// on the command line is reachable before a recovering node commits to
// pulling from it.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rpc.Ping(ctx, &pairedrpc.Empty{})
	return wrap("ping", err)
}

// Heartbeat is the backup's periodic liveness probe of the primary.
func (c *Client) Heartbeat(ctx context.Context) error {
	_, err := c.rpc.Heartbeat(ctx, &pairedrpc.Empty{})
	return wrap("heartbeat", err)
}

// Read fetches the block at addr from whichever node this Client is
// dialed to; used by cmd/pairctl, not by the replication core itself.
func (c *Client) Read(ctx context.Context, addr uint64) ([]byte, error) {
	reply, err := c.rpc.Read(ctx, &pairedrpc.ReadRequest{Addr: addr})
	if err != nil {
		return nil, wrap("read", err)
	}
	return reply.Data, nil
}

// Write issues a client write against whichever node this Client is
// dialed to; used by cmd/pairctl, not by the replication core itself.
func (c *Client) Write(ctx context.Context, addr uint64, block []byte) error {
	_, err := c.rpc.Write(ctx, &pairedrpc.WriteRequest{Addr: addr, Data: block})
	return wrap("write", err)
}

// BackupWrite replicates one client write from primary to backup.
func (c *Client) BackupWrite(ctx context.Context, addr uint64, block []byte) error {
	_, err := c.rpc.BackupWrite(ctx, &pairedrpc.WriteRequest{Addr: addr, Data: block})
	return wrap("backup_write", err)
}

// TriggerSync asks the peer to start streaming its dirty blocks to us,
// fenced by syncID.
func (c *Client) TriggerSync(ctx context.Context, syncID int32) error {
	_, err := c.rpc.TriggerSync(ctx, &pairedrpc.TriggerSyncRequest{SyncId: syncID})
	return wrap("trigger_sync", err)
}

// SyncBlock sends one dirty block during a sync stream.
func (c *Client) SyncBlock(ctx context.Context, syncID int32, addr uint64, block []byte) error {
	_, err := c.rpc.SyncBlock(ctx, &pairedrpc.SyncBlockRequest{SyncId: syncID, Addr: addr, Data: block})
	return wrap("sync_block", err)
}

// FinishSync declares a sync stream complete, stating the number of
// blocks sent so the receiver can detect a dropped stream.
func (c *Client) FinishSync(ctx context.Context, syncID int32, totalBlocks uint64) error {
	_, err := c.rpc.FinishSync(ctx, &pairedrpc.FinishSyncRequest{SyncId: syncID, TotalBlocks: totalBlocks})
	return wrap("finish_sync", err)
}

// wrap adds the RPC name to a transport-level failure for logging,
// but leaves a structured gRPC status error untouched: callers
// (notably cmd/pairctl's failover policy) need status.FromError to
// keep working on whatever wrap returns.
func wrap(rpcName string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return fmt.Errorf("replclient: %s: %w", rpcName, err)
}
