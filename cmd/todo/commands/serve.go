package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the local task API",
		Long:  "Serve the task list over HTTP on the configured address until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, opts)
		},
	}
}

func runServer(ctx context.Context, opts *Options) error {
	a, err := newApp(ctx, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	syncSvc := services.NewSyncService(a.cfg.Sync.SyncingDuration, a.cfg.Sync.SyncedDuration, a.logger)
	defer syncSvc.Stop()

	srv, err := server.New(a.cfg, server.Deps{
		Store:     a.store,
		Presenter: a.presenter,
		Sync:      syncSvc,
		Slot:      a.slot,
		Registry:  a.registry,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	a.logger.Infow("Starting todo server",
		"address", a.cfg.Server.GetAddr(),
		"environment", a.cfg.App.Environment,
		"storage", a.cfg.Storage.Backend,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}
