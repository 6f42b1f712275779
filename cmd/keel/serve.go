package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/emberline/keel/internal/config"
	"github.com/emberline/keel/internal/runtime"
	"github.com/emberline/keel/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the keel runtime server",
	// Override PersistentPreRunE so we don't create a gRPC client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		rt, err := runtime.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}

		runtimeServer := server.NewRuntimeServer(rt, logger)
		grpcServer := server.NewGRPCServer(runtimeServer)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			rt.Close(ctx)
			return err
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Wait for shutdown signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())

		// Subscriber streams end first, then actors drain and the store
		// closes.
		grpcServer.GracefulStop()
		rt.Close(ctx)
		logger.Info("shutdown complete")
		return nil
	},
}
