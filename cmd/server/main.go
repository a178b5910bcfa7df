// Command server runs one node of a primary/backup replicated
// block-storage pair: `server primary <port> <storage_file>
// --backup-address <addr> [--recover]` or `server backup <port>
// <storage_file> --primary-address <addr>`. The role subcommand comes
// first; the port is not accepted ahead of it.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/erigontech/erigon-lib/log/v3"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/erigontech/pairedstore/internal/blockio"
	"github.com/erigontech/pairedstore/internal/fault"
	"github.com/erigontech/pairedstore/internal/grpcutil"
	"github.com/erigontech/pairedstore/internal/heartbeat"
	"github.com/erigontech/pairedstore/internal/pairedrpc"
	"github.com/erigontech/pairedstore/internal/pairedserver"
	"github.com/erigontech/pairedstore/internal/replclient"
	"github.com/erigontech/pairedstore/internal/rootctx"
)

var (
	backupAddress  string
	primaryAddress string
	recoverFlag    bool
	storageSizeMB  int

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

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Run one node of a primary/backup replicated block store",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tlsCert, "tls.cert", "", "certificate for peer TLS handshake")
	rootCmd.PersistentFlags().StringVar(&tlsKey, "tls.key", "", "key file for peer TLS handshake")
	rootCmd.PersistentFlags().StringVar(&tlsCACrt, "tls.cacert", "", "CA certificate for peer TLS handshake")
	rootCmd.PersistentFlags().IntVar(&storageSizeMB, "storage.size-mb", blockio.DefaultSizeMB, "backing file size in megabytes; a smaller existing file is grown to it, a larger one is left as is")

	primaryCmd.Flags().StringVar(&backupAddress, "backup-address", "", "backup node's <host>:<port> (required)")
	primaryCmd.Flags().BoolVar(&recoverFlag, "recover", false, "start Recovering and pull current state from the backup")
	_ = primaryCmd.MarkFlagRequired("backup-address")

	backupCmd.Flags().StringVar(&primaryAddress, "primary-address", "", "primary node's <host>:<port> (required)")
	_ = backupCmd.MarkFlagRequired("primary-address")

	rootCmd.AddCommand(primaryCmd, backupCmd)
}

var primaryCmd = &cobra.Command{
	Use:   "primary <port> <storage_file>",
	Short: "Run as the primary node of the pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRole(args[0], args[1], "primary")
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <port> <storage_file>",
	Short: "Run as the backup node of the pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRole(args[0], args[1], "backup")
	},
}

func runRole(port, storageFile, role string) error {
	logger := log.New()

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(interface{ ExitCode() int }); ok {
				os.Exit(ep.ExitCode())
			}
			panic(r)
		}
	}()

	ctx, cancel := rootctx.New()
	defer cancel()

	store, err := blockio.Open(storageFile, storageSizeMB)
	if err != nil {
		return fmt.Errorf("open storage file: %w", err)
	}
	defer store.Close()

	creds, err := grpcutil.Credentials(grpcutil.TLSConfig{CertFile: tlsCert, KeyFile: tlsKey, CACert: tlsCACrt})
	if err != nil {
		return fmt.Errorf("build credentials: %w", err)
	}

	peerAddr := backupAddress
	if role == "backup" {
		peerAddr = primaryAddress
	}
	conn, err := grpcutil.Connect(creds, peerAddr)
	if err != nil {
		return fmt.Errorf("dial peer %s: %w", peerAddr, err)
	}
	defer conn.Close()
	client := replclient.New(conn)

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", port, err)
	}

	grpcServer := grpc.NewServer()
	var impl pairedrpc.PairedServer
	var recoveringCore *pairedserver.Core

	switch role {
	case "primary":
		// Without --recover a primary assumes the backup isn't up yet
		// and starts Standalone, syncing it in once it appears; with
		// --recover it instead pulls current state from the backup.
		initial := pairedserver.Standalone
		if recoverFlag {
			initial = pairedserver.Recovering
		}
		p := pairedserver.NewPrimary(store, client, logger, fault.Noop{}, ctx, initial)
		impl = p
		if initial == pairedserver.Recovering {
			recoveringCore = p.Core
		}
	case "backup":
		p := pairedserver.NewBackup(store, client, logger, fault.Noop{}, ctx, pairedserver.Recovering, heartbeat.DefaultInterval)
		impl = p
		recoveringCore = p.Core
	}

	pairedrpc.RegisterPairedServer(grpcServer, impl)

	if recoveringCore != nil {
		// A recovering node pulls its state from the peer, so it does not
		// start at all unless that peer answers a liveness check.
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("ping peer %s before recovery: %w", peerAddr, err)
		}
		go recoveringCore.RunRecoveryLoop(ctx)
	}

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	logger.Info("[server] listening", "role", role, "port", port, "peer", peerAddr)
	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
