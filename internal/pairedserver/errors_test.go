package pairedserver

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusMapsEachErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"argument", argumentErr("role misuse"), codes.FailedPrecondition},
		{"redirect", redirect("switch nodes"), codes.Aborted},
		{"transient", transientErr("recovering"), codes.Unavailable},
		{"invariant", &InvariantViolation{Msg: "split brain"}, codes.Internal},
		{"wrong size", &wrongBlockSize{got: 10, want: 4096}, codes.InvalidArgument},
		{"stale sync", staleSync(), codes.Canceled},
		{"unwrapped", errors.New("bespoke failure"), codes.Unknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := toStatus(c.err)
			st, ok := status.FromError(got)
			if !ok {
				t.Fatalf("toStatus(%v) did not produce a status error", c.err)
			}
			if st.Code() != c.code {
				t.Errorf("code = %v, want %v", st.Code(), c.code)
			}
		})
	}
}

func TestToStatusPassesNilThrough(t *testing.T) {
	if toStatus(nil) != nil {
		t.Fatalf("toStatus(nil) should be nil")
	}
}
