package pairedserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erigontech/erigon-lib/log/v3"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
)

func readReq(addr uint64) *pairedrpc.ReadRequest { return &pairedrpc.ReadRequest{Addr: addr} }

func writeReq(addr uint64, data []byte) *pairedrpc.WriteRequest {
	return &pairedrpc.WriteRequest{Addr: addr, Data: data}
}

func newPrimaryForTest(t *testing.T, initial State) *PrimaryServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primary.img")
	store, err := blockio.Open(path, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPrimary(store, nil, log.New(), fault.Noop{}, context.Background(), initial)
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with code %v, got nil", want)
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("error %v is not a gRPC status error", err)
	}
	if st.Code() != want {
		t.Fatalf("code = %v, want %v", st.Code(), want)
	}
}

func block(fill byte) []byte {
	b := make([]byte, blockio.BlockSize)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestPrimaryReadServesInNormalAndStandalone(t *testing.T) {
	for _, s := range []State{Normal, Standalone} {
		p := newPrimaryForTest(t, s)
		if _, err := p.Read(context.Background(), readReq(0)); err != nil {
			t.Fatalf("state %v: Read: %v", s, err)
		}
	}
}

func TestPrimaryReadRedirectsWhileRecovering(t *testing.T) {
	p := newPrimaryForTest(t, Recovering)
	_, err := p.Read(context.Background(), readReq(0))
	wantCode(t, err, codes.Aborted)
}

func TestPrimaryWriteRejectsWrongBlockSize(t *testing.T) {
	p := newPrimaryForTest(t, Normal)
	_, err := p.Write(context.Background(), writeReq(0, []byte{1, 2, 3}))
	wantCode(t, err, codes.InvalidArgument)
}

func TestPrimaryWriteRedirectsWhileRecovering(t *testing.T) {
	p := newPrimaryForTest(t, Recovering)
	_, err := p.Write(context.Background(), writeReq(0, block(1)))
	wantCode(t, err, codes.Aborted)
}

func TestPrimaryWriteInStandaloneMarksDirtyWithoutReplicating(t *testing.T) {
	p := newPrimaryForTest(t, Standalone)
	_, err := p.Write(context.Background(), writeReq(0, block(7)))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if p.DirtyLen() != 1 {
		t.Fatalf("DirtyLen() = %d, want 1", p.DirtyLen())
	}
	if p.State() != Standalone {
		t.Fatalf("state = %v, want Standalone", p.State())
	}
}

func TestPrimaryHeartbeatOkInNormal(t *testing.T) {
	p := newPrimaryForTest(t, Normal)
	if _, err := p.Heartbeat(context.Background(), nil); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
}

func TestPrimaryHeartbeatRedirectsWhileRecovering(t *testing.T) {
	p := newPrimaryForTest(t, Recovering)
	_, err := p.Heartbeat(context.Background(), nil)
	wantCode(t, err, codes.Aborted)
}

func TestPrimaryHeartbeatIsFatalSplitBrainWhileStandalone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.img")
	store, err := blockio.Open(path, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	exited := make(chan int, 1)
	p := &PrimaryServer{Core: newCore(Config{
		Store:   store,
		Logger:  log.New(),
		Initial: Standalone,
		ExitFn:  func(code int) { exited <- code },
	})}

	_, err = p.Heartbeat(context.Background(), nil)
	wantCode(t, err, codes.Internal)
	select {
	case code := <-exited:
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
	default:
		t.Fatal("invariant violation did not call exitFn")
	}
}

func TestTriggerSyncIsFatalDoubleFailureWhileRecovering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primary.img")
	store, err := blockio.Open(path, 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	exited := make(chan int, 1)
	c := newCore(Config{
		Store:   store,
		Logger:  log.New(),
		Initial: Recovering,
		ExitFn:  func(code int) { exited <- code },
	})

	// A node already Recovering receiving TriggerSync means the peer
	// it's recovering from has itself failed over: neither side can be
	// trusted to finish the handshake, so this is a fatal double
	// failure rather than a retryable condition.
	_, err = c.TriggerSync(context.Background(), &pairedrpc.TriggerSyncRequest{SyncId: 1})
	wantCode(t, err, codes.Internal)
	select {
	case code := <-exited:
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
	default:
		t.Fatal("invariant violation did not call exitFn")
	}
}

func TestPrimaryBackupWriteAlwaysRejected(t *testing.T) {
	p := newPrimaryForTest(t, Normal)
	_, err := p.BackupWrite(context.Background(), writeReq(0, block(1)))
	wantCode(t, err, codes.FailedPrecondition)
}
