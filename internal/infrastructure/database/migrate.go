package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus describes the schema version of a database
type MigrationStatus struct {
	Version uint
	Dirty   bool
}

// newMigrator builds a migrate instance over the embedded migrations
func (db *DB) newMigrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var driver migratedb.Driver
	switch db.driver {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(db.DB.DB, &sqlite3.Config{})
	case DriverPostgres:
		driver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for %q", db.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies all pending migrations. It reports whether anything changed.
func (db *DB) MigrateUp() (bool, error) {
	m, err := db.newMigrator()
	if err != nil {
		return false, err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("migration up failed: %w", err)
	}
	return true, nil
}

// MigrateDown reverts all migrations
func (db *DB) MigrateDown() (bool, error) {
	m, err := db.newMigrator()
	if err != nil {
		return false, err
	}

	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("migration down failed: %w", err)
	}
	return true, nil
}

// MigrationVersion returns the current schema version; version 0 means none applied
func (db *DB) MigrationVersion() (MigrationStatus, error) {
	m, err := db.newMigrator()
	if err != nil {
		return MigrationStatus{}, err
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationStatus{}, nil
		}
		return MigrationStatus{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return MigrationStatus{Version: version, Dirty: dirty}, nil
}
