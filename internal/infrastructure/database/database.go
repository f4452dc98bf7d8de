package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskmaster/todo/internal/infrastructure/config"
)

// Driver names registered with database/sql
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps sqlx.DB and provides additional functionality
type DB struct {
	DB     *sqlx.DB
	driver string
}

// New opens a connection for driver/dsn and verifies it with a ping
func New(driver, dsn string) (*DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		driver: driver,
	}, nil
}

// NewSQLite opens (creating if needed) the SQLite database at path
func NewSQLite(cfg config.SQLiteConfig) (*DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := New(DriverSQLite, cfg.Path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// one writer at a time keeps SQLite from reporting SQLITE_BUSY
	db.DB.SetMaxOpenConns(1)
	return db, nil
}

// NewPostgres opens a pooled PostgreSQL connection
func NewPostgres(cfg config.PostgresConfig) (*DB, error) {
	db, err := New(DriverPostgres, cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	db.DB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// NewConnection opens the database selected by the storage backend
func NewConnection(cfg config.StorageConfig) (*DB, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLite(cfg.SQLite)
	case config.BackendPostgres:
		return NewPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("storage backend %q has no SQL database", cfg.Backend)
	}
}

// Driver returns the database/sql driver name
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// HealthCheck checks database health
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}
