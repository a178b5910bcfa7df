// Package grpcutil collects the small amount of gRPC dial/credential
// plumbing shared by the server's peer connection and cmd/pairctl. It
// is a thin adapter over erigon-lib/gointerfaces/grpcutil — the same
// package cmd/txpool/main.go calls ahead of its own core/sentry dials
// — so TLS-or-plaintext credential construction and client dialing
// follow that package's behavior rather than a reimplementation of it.
package grpcutil

import (
	"fmt"

	"github.com/erigontech/erigon-lib/gointerfaces/grpcutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// TLSConfig names the three PEM files a --tls.cert/--tls.key/--tls.cacert
// flag trio would point at. All empty means "no TLS".
type TLSConfig struct {
	CertFile string
	KeyFile  string
	CACert   string
}

// Credentials builds transport credentials for an outbound peer
// connection, delegating to grpcutil.TLS exactly as cmd/txpool does:
// mutual TLS when the cert/key/CA files are set, plaintext when
// they're empty.
func Credentials(cfg TLSConfig) (credentials.TransportCredentials, error) {
	creds, err := grpcutil.TLS(cfg.CACert, cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("grpcutil: %w", err)
	}
	return creds, nil
}

// Connect dials addr with the given transport credentials.
func Connect(creds credentials.TransportCredentials, addr string) (*grpc.ClientConn, error) {
	conn, err := grpcutil.Connect(creds, addr)
	if err != nil {
		return nil, fmt.Errorf("grpcutil: dial %s: %w", addr, err)
	}
	return conn, nil
}
