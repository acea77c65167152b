package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/app"
	"github.com/spec-kit/support-desk/internal/persistence"
)

func newServeCommand() *cobra.Command {
	var seed adminSeed

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), seed)
		},
	}
	seed.bindFlags(cmd, false)
	return cmd
}

func runServe(parent context.Context, seed adminSeed) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	if rt.cfg.Postgres.RunMigrations && rt.pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, rt.pg.PoolHandle(), logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	repos, deps := rt.repositories(ctx)
	container, err := app.NewContainer(rt.cfg, repos, logger, app.Options{})
	if err != nil {
		return err
	}

	if seed.email != "" {
		if err := seed.run(ctx, container); err != nil {
			logger.Error("failed to seed admin", zap.Error(err))
			return err
		}
	}

	server := httptransport.NewServer(rt.cfg.App.Name, logger, container.Metrics, rt.cfg.App.RequestTimeout(), container.RouteConfig(deps))

	go func() {
		if err := server.Listen(rt.cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(ctx, logger)

	shutdownErr := server.Shutdown()
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFlush()
	if err := container.Close(flushCtx); err != nil {
		logger.Warn("pending email not delivered", zap.Error(err))
	}
	return shutdownErr
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
}
