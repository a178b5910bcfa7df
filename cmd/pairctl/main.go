// Command pairctl is a minimal manual test client for a running
// primary/backup pair: `pairctl read <addr>` or `pairctl write <addr>
// <byte-fill>`, each with `--primary <addr> --backup <addr>`. It fails
// over between endpoints on
// ABORTED or a transport error, per the client policy in the
// replication design: toggle target and retry until success.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/grpcutil"
	"github.com/erigontech/pairedstore/internal/replclient"
)

var (
	primaryAddr string
	backupAddr  string

	tlsCert  string
	tlsKey   string
	tlsCACrt string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{Use: "pairctl"}

func init() {
	rootCmd.PersistentFlags().StringVar(&primaryAddr, "primary", "", "primary node's <host>:<port> (required)")
	rootCmd.PersistentFlags().StringVar(&backupAddr, "backup", "", "backup node's <host>:<port> (required)")
	_ = rootCmd.MarkPersistentFlagRequired("primary")
	_ = rootCmd.MarkPersistentFlagRequired("backup")
	rootCmd.PersistentFlags().StringVar(&tlsCert, "tls.cert", "", "certificate for client TLS handshake")
	rootCmd.PersistentFlags().StringVar(&tlsKey, "tls.key", "", "key file for client TLS handshake")
	rootCmd.PersistentFlags().StringVar(&tlsCACrt, "tls.cacert", "", "CA certificate for client TLS handshake")

	rootCmd.AddCommand(readCmd, writeCmd)
}

var readCmd = &cobra.Command{
	Use:   "read <addr>",
	Short: "Read the block at addr, failing over between endpoints as needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid addr %q: %w", args[0], err)
		}
		return withFailover(func(ctx context.Context, c *replclient.Client) error {
			data, err := c.Read(ctx, addr)
			if err != nil {
				return err
			}
			fmt.Printf("%x\n", data)
			return nil
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write <addr> <byte-fill>",
	Short: "Write a block at addr filled with the given byte value, failing over as needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid addr %q: %w", args[0], err)
		}
		fill, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid fill byte %q: %w", args[1], err)
		}
		block := make([]byte, blockio.BlockSize)
		for i := range block {
			block[i] = byte(fill)
		}
		return withFailover(func(ctx context.Context, c *replclient.Client) error {
			return c.Write(ctx, addr, block)
		})
	},
}

// withFailover runs op against the primary first; on ABORTED or any
// transport-level failure it flips to the other endpoint and retries,
// looping until op succeeds.
func withFailover(op func(ctx context.Context, c *replclient.Client) error) error {
	logger := log.New()
	creds, err := grpcutil.Credentials(grpcutil.TLSConfig{CertFile: tlsCert, KeyFile: tlsKey, CACert: tlsCACrt})
	if err != nil {
		return err
	}

	targets := []string{primaryAddr, backupAddr}
	ctx := context.Background()

	for attempt := 0; ; attempt++ {
		addr := targets[attempt%2]
		conn, err := grpcutil.Connect(creds, addr)
		if err != nil {
			logger.Warn("[pairctl] dial failed, flipping endpoint", "addr", addr, "err", err)
			continue
		}
		client := replclient.New(conn)
		err = op(ctx, client)
		conn.Close()
		if err == nil {
			return nil
		}
		if !shouldFlip(err) {
			return err
		}
		logger.Warn("[pairctl] retrying against other endpoint", "failed_addr", addr, "err", err)
	}
}

func shouldFlip(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return true // transport-level failure
	}
	return st.Code() == codes.Aborted || st.Code() == codes.Unavailable
}
