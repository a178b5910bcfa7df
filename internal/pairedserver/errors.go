package pairedserver

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ArgumentError is a caller misuse: a method invoked on a role that
// must never receive it (e.g. BackupWrite sent to a primary).
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// RedirectError means the caller hit the wrong node for the current
// state; the client must flip to the other endpoint and retry.
type RedirectError struct {
	Msg string
}

func (e *RedirectError) Error() string { return e.Msg }

// TransientError is logged locally and treated by peer-facing senders
// as evidence the peer is down. Stale sync messages use staleSyncError
// instead.
type TransientError struct {
	Msg string
}

func (e *TransientError) Error() string { return e.Msg }

// InvariantViolation signals split-brain or double-recovery: a
// situation where continuing would silently corrupt data. The process
// exits after logging it (see (*Core).invariantViolation).
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return e.Msg }

// wrongBlockSize reports a write whose payload isn't exactly
// blockio.BlockSize bytes; mapped to INVALID_ARGUMENT, distinct from
// the FAILED_PRECONDITION role-misuse ArgumentErrors above.
type wrongBlockSize struct {
	got, want int
}

func (e *wrongBlockSize) Error() string {
	return fmt.Sprintf("block is %d bytes, want %d", e.got, e.want)
}

// staleSync is the CANCELLED("stale sync") response to any SyncBlock
// or FinishSync whose sync_id doesn't match the receiver's current
// RecoveryState, or that arrives when the receiver isn't Recovering at
// all.
type staleSyncError struct{}

func (staleSyncError) Error() string { return "stale sync" }

func redirect(msg string) error     { return &RedirectError{Msg: msg} }
func argumentErr(msg string) error  { return &ArgumentError{Msg: msg} }
func transientErr(msg string) error { return &TransientError{Msg: msg} }
func staleSync() error              { return &staleSyncError{} }

// toStatus adapts the internal error taxonomy to the gRPC status codes
// this package uses. Handlers return plain Go errors and never
// construct status.Errorf themselves, keeping the state machine
// transport-agnostic and unit-testable without a gRPC server.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var argErr *ArgumentError
	var redirErr *RedirectError
	var transErr *TransientError
	var invErr *InvariantViolation
	var sizeErr *wrongBlockSize
	var staleErr *staleSyncError

	switch {
	case errors.As(err, &sizeErr):
		return status.Error(codes.InvalidArgument, sizeErr.Error())
	case errors.As(err, &staleErr):
		return status.Error(codes.Canceled, staleErr.Error())
	case errors.As(err, &argErr):
		return status.Error(codes.FailedPrecondition, argErr.Msg)
	case errors.As(err, &redirErr):
		return status.Error(codes.Aborted, redirErr.Msg)
	case errors.As(err, &transErr):
		return status.Error(codes.Unavailable, transErr.Msg)
	case errors.As(err, &invErr):
		return status.Error(codes.Internal, invErr.Msg)
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}
