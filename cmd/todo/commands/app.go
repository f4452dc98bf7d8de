package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskmaster/todo/internal/adapters/repository"
	"github.com/taskmaster/todo/internal/application/services"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/infrastructure/metrics"
	"github.com/taskmaster/todo/internal/ports"
)

// Options are the persistent flags shared by every command
type Options struct {
	ConfigFile string
	Verbose    bool
}

// app is the wired task store plus everything it was built from
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	slot      ports.ClosableSlot
	registry  *prometheus.Registry
	store     *services.TaskStore
	presenter *services.ListPresenter
	loc       *time.Location
}

func loadConfig(opts *Options, quiet bool) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// one-shot commands print their own output; only warnings belong on stderr
	if quiet && !opts.Verbose {
		cfg.Logger.Level = "warn"
	}
	if opts.Verbose {
		cfg.Logger.Level = "debug"
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, appLogger, nil
}

// newApp opens the configured slot and loads the task list from it
func newApp(ctx context.Context, opts *Options, quiet bool) (*app, error) {
	cfg, appLogger, err := loadConfig(opts, quiet)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.App.Location()
	if err != nil {
		appLogger.Close()
		return nil, err
	}

	slot, err := repository.NewSlot(ctx, cfg.Storage, appLogger)
	if err != nil {
		appLogger.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	store := services.NewTaskStore(slot, cfg.Storage.Key, metrics.NewStoreMetrics(registry), appLogger)
	store.Load(ctx)

	return &app{
		cfg:       cfg,
		logger:    appLogger,
		slot:      slot,
		registry:  registry,
		store:     store,
		presenter: services.NewListPresenter(nil),
		loc:       loc,
	}, nil
}

func (a *app) Close() {
	if err := a.slot.Close(); err != nil {
		a.logger.Warnw("Failed to close storage", "error", err)
	}
	_ = a.logger.Close()
}
