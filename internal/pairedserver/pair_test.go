package pairedserver_test

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/heartbeat"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
	"github.com/erigontech/pairedstore/internal/pairedserver"
	"github.com/erigontech/pairedstore/internal/replclient"
)

func dialBufconn(t *testing.T, lis *bufconn.Listener) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newStore(t *testing.T) *blockio.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.img")
	store, err := blockio.Open(path, 1)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newPair builds a primary and a backup wired to each other over
// bufconn. Neither side's recovery loop is started automatically:
// tests that need the sync handshake launch RunRecoveryLoop themselves
// (via the returned ctx), once any setup writes they depend on are
// already in place. backupStore is the backup's own block store, so a
// test can inspect the replica while the backup is Normal and refusing
// client reads.
func newPair(t *testing.T, initialPrimary, initialBackup pairedserver.State, injector fault.Injector) (primary *pairedserver.PrimaryServer, backup *pairedserver.BackupServer, backupStore *blockio.Store, ctx context.Context, stop func()) {
	t.Helper()
	logger := log.New()
	if injector == nil {
		injector = fault.Noop{}
	}

	primaryLis := bufconn.Listen(1024 * 1024)
	backupLis := bufconn.Listen(1024 * 1024)

	// The primary's client dials the backup's listener, and vice
	// versa, mirroring how cmd/server wires --backup-address /
	// --primary-address to an outbound connection to the peer.
	primaryToBackup := replclient.New(dialBufconn(t, backupLis))
	backupToPrimary := replclient.New(dialBufconn(t, primaryLis))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	p := pairedserver.NewPrimary(newStore(t), primaryToBackup, logger, injector, ctx, initialPrimary)
	backupStore = newStore(t)
	b := pairedserver.NewBackup(backupStore, backupToPrimary, logger, injector, ctx, initialBackup, heartbeat.DefaultInterval)

	primarySrv := grpc.NewServer()
	pairedrpc.RegisterPairedServer(primarySrv, p)
	backupSrv := grpc.NewServer()
	pairedrpc.RegisterPairedServer(backupSrv, b)

	go primarySrv.Serve(primaryLis)
	go backupSrv.Serve(backupLis)

	if initialBackup == pairedserver.Normal {
		b.StartHeartbeat()
	}

	stop = func() {
		cancel()
		primarySrv.Stop()
		backupSrv.Stop()
	}
	t.Cleanup(stop)
	return p, b, backupStore, ctx, stop
}

func block(fill byte) []byte {
	b := make([]byte, blockio.BlockSize)
	for i := range b {
		b[i] = fill
	}
	return b
}

func waitForState(t *testing.T, get func() pairedserver.State, want pairedserver.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if get() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, get(), "state did not converge in time")
}

func TestNormalWriteReplicatesToBackup(t *testing.T) {
	p, b, bs, _, _ := newPair(t, pairedserver.Normal, pairedserver.Normal, nil)

	_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: 0, Data: block(0x42)})
	require.NoError(t, err)

	// The backup refuses client reads while Normal, so check its replica
	// through its own store.
	got, err := bs.Read(0)
	require.NoError(t, err)
	require.Equal(t, block(0x42), got)

	require.Equal(t, pairedserver.Normal, b.State())
}

func TestBackupRejectsReadWhileNormal(t *testing.T) {
	_, b, _, _, _ := newPair(t, pairedserver.Normal, pairedserver.Normal, nil)
	_, err := b.Read(context.Background(), &pairedrpc.ReadRequest{Addr: 0})
	require.Error(t, err)
}

func TestPrimaryGoesStandaloneWhenBackupUnreachable(t *testing.T) {
	p, _, _, _, stop := newPair(t, pairedserver.Normal, pairedserver.Normal, nil)
	stop() // kill the backup's listener/server so BackupWrite fails

	_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: 0, Data: block(1)})
	require.NoError(t, err, "the local write still succeeds even if replication fails")
	require.Equal(t, pairedserver.Standalone, p.State())
	require.Equal(t, 1, p.DirtyLen())
}

func TestSyncCatchesBackupUpAndReturnsToNormal(t *testing.T) {
	// Primary is Standalone holding dirty blocks from writes accepted
	// while the backup was down; the backup starts fresh and
	// Recovering. Its recovery loop is launched only after the writes
	// are in, so the handshake always has something to replay.
	p, b, bs, ctx, _ := newPair(t, pairedserver.Standalone, pairedserver.Recovering, nil)

	for i := uint64(0); i < 5; i++ {
		_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: i * blockio.BlockSize, Data: block(byte(i))})
		require.NoError(t, err)
	}
	require.Equal(t, 5, p.DirtyLen())

	go b.RunRecoveryLoop(ctx)

	waitForState(t, b.State, pairedserver.Normal)
	waitForState(t, p.State, pairedserver.Normal)
	require.Equal(t, 0, p.DirtyLen())

	for i := uint64(0); i < 5; i++ {
		got, err := bs.Read(i * blockio.BlockSize)
		require.NoError(t, err)
		require.Equal(t, block(byte(i)), got)
	}
}

func TestBackupServesReadsWhileStandalone(t *testing.T) {
	_, b, _, _, _ := newPair(t, pairedserver.Normal, pairedserver.Standalone, nil)
	_, err := b.Read(context.Background(), &pairedrpc.ReadRequest{Addr: 0})
	require.NoError(t, err)
}

func TestBackupRejectsBackupWriteWhileRecovering(t *testing.T) {
	_, b, _, _, _ := newPair(t, pairedserver.Normal, pairedserver.Recovering, nil)
	_, err := b.BackupWrite(context.Background(), &pairedrpc.WriteRequest{Addr: 0, Data: block(1)})
	require.Error(t, err)
}

func TestPrimaryRejectsReadAndWriteWhileRecovering(t *testing.T) {
	p, _, _, _, _ := newPair(t, pairedserver.Recovering, pairedserver.Normal, nil)

	_, err := p.Read(context.Background(), &pairedrpc.ReadRequest{Addr: 0})
	require.Error(t, err)

	_, err = p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: 0, Data: block(1)})
	require.Error(t, err)
}

func TestFaultAtMidSyncAbortsWithoutCompleting(t *testing.T) {
	injector := &onceInjector{point: fault.PointMidSync}
	p, b, _, ctx, _ := newPair(t, pairedserver.Standalone, pairedserver.Recovering, injector)

	for i := uint64(0); i < 3; i++ {
		_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: i * blockio.BlockSize, Data: block(byte(i))})
		require.NoError(t, err)
	}

	go b.RunRecoveryLoop(ctx)

	// The aborted attempt leaves both sides exactly where they were:
	// no InvariantViolation, no forward progress to Normal.
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, pairedserver.Standalone, p.State())
	require.Equal(t, pairedserver.Recovering, b.State())
}

// onceInjector fails the named fault point exactly once, then goes
// quiet, so tests can force a single mid-sync abort without looping.
type onceInjector struct {
	point string
	hit   bool
}

func (o *onceInjector) Hit(point string) error {
	if point != o.point || o.hit {
		return nil
	}
	o.hit = true
	return errFaultInjected
}

var errFaultInjected = fmt.Errorf("pair_test: injected fault")

// pausingInjector blocks the caller at the named fault point until the
// test sends on resume, letting a test park the sync driver inside its
// held-lock window (the final drained-check-through-FinishSync-through-
// clear section) so a concurrent write can be raced against it.
type pausingInjector struct {
	point  string
	paused chan struct{}
	resume chan struct{}
	hit    bool
}

func newPausingInjector(point string) *pausingInjector {
	return &pausingInjector{point: point, paused: make(chan struct{}), resume: make(chan struct{})}
}

func (p *pausingInjector) Hit(point string) error {
	if point != p.point || p.hit {
		return nil
	}
	p.hit = true
	close(p.paused)
	<-p.resume
	return nil
}

// TestWriteDuringFinishSyncWindowIsNotLost pins the sync driver right
// before FinishSync, inside the window where it now holds c.mu
// continuously through the state flip and tracker.Clear. A write
// landing there must block until the transition completes rather than
// being acknowledged against a total already sent to the peer and then
// wiped out from under it.
func TestWriteDuringFinishSyncWindowIsNotLost(t *testing.T) {
	injector := newPausingInjector(fault.PointPreFinishSync)
	p, b, bs, ctx, _ := newPair(t, pairedserver.Standalone, pairedserver.Recovering, injector)

	for i := uint64(0); i < 3; i++ {
		_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: i * blockio.BlockSize, Data: block(byte(i))})
		require.NoError(t, err)
	}
	require.Equal(t, 3, p.DirtyLen())

	go b.RunRecoveryLoop(ctx)

	select {
	case <-injector.paused:
	case <-time.After(2 * time.Second):
		t.Fatal("sync driver never reached the pre-finish-sync fault point")
	}

	// The driver is now parked holding the exclusive lock. A write
	// racing in here must not complete until the driver releases it.
	raceAddr := uint64(3) * blockio.BlockSize
	writeDone := make(chan error, 1)
	go func() {
		_, err := p.Write(context.Background(), &pairedrpc.WriteRequest{Addr: raceAddr, Data: block(0xAA)})
		writeDone <- err
	}()

	select {
	case <-writeDone:
		t.Fatal("concurrent write completed while the sync driver held the lock")
	case <-time.After(100 * time.Millisecond):
	}

	close(injector.resume)

	select {
	case err := <-writeDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent write never completed after the sync driver resumed")
	}

	waitForState(t, b.State, pairedserver.Normal)
	waitForState(t, p.State, pairedserver.Normal)

	// The race write landed after the transition: it should have taken
	// the ordinary replicated path (already applied to the backup, not
	// left dangling in a cleared tracker).
	require.Equal(t, 0, p.DirtyLen())
	got, err := bs.Read(raceAddr)
	require.NoError(t, err)
	require.Equal(t, block(0xAA), got)

	for i := uint64(0); i < 3; i++ {
		got, err := bs.Read(i * blockio.BlockSize)
		require.NoError(t, err)
		require.Equal(t, block(byte(i)), got)
	}
}
