package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/iwvelando/city-budget/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive budget dashboard",
		Long: `Serve the dashboard UI and its chart API.

The ledgers are loaded once at startup; every selection change in the UI
re-runs one chart query against them.

Example:
  city-budget serve --address :8050`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func runServe(parent context.Context, opts *rootOptions, addressOverride string) error {
	serverConfig, err := server.LoadConfig(opts.serverConfigPath)
	if err != nil {
		return err
	}

	conf, logger, err := opts.loadConfiguration(serverConfig.Logging)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if addressOverride != "" {
		serverConfig.Address = addressOverride
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := budgetFor(ctx, logger, conf)
	if err != nil {
		logger.Fatal("failed to load budget",
			zap.String("op", "main.runServe"),
			zap.Error(err),
		)
	}

	httpServer := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           server.NewHandler(logger, b, version),
		ReadTimeout:       serverConfig.ReadTimeoutDuration(),
		ReadHeaderTimeout: serverConfig.ReadTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving dashboard",
			zap.String("op", "main.runServe"),
			zap.String("address", serverConfig.Address),
			zap.Strings("years", b.Years()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeoutDuration())
		defer cancel()

		logger.Info("shutting down",
			zap.String("op", "main.runServe"),
		)
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped with error",
			zap.String("op", "main.runServe"),
			zap.Error(err),
		)
	}
	return nil
}
