package repository

import (
	"context"
	"fmt"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/database"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// NewSlot opens the durable slot selected by cfg.Backend. SQL backends are
// migrated before use.
func NewSlot(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (ports.ClosableSlot, error) {
	switch cfg.Backend {
	case config.BackendFile:
		slot, err := NewFileSlot(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return slot, nil

	case config.BackendMemory:
		log.Warnw("Using in-memory storage, tasks will not survive a restart")
		return NewMemorySlot(), nil

	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		changed, err := db.MigrateUp()
		if err != nil {
			db.Close()
			return nil, err
		}
		if changed {
			log.Infow("Applied storage migrations", "backend", cfg.Backend, "driver", db.Driver())
		}
		return NewSQLSlot(db), nil

	case config.BackendRedis:
		slot, err := NewRedisSlot(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return slot, nil

	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownBackend, cfg.Backend)
	}
}
