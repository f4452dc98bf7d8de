package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/infrastructure/config"
)

func newTestSQLite(t *testing.T) *DB {
	t.Helper()

	db, err := NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "todo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewSQLite_CreatesDirectory(t *testing.T) {
	db := newTestSQLite(t)

	assert.Equal(t, DriverSQLite, db.Driver())
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestMigrations_UpVersionDown(t *testing.T) {
	db := newTestSQLite(t)

	status, err := db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.Version)

	changed, err := db.MigrateUp()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = db.MigrateUp()
	require.NoError(t, err)
	assert.False(t, changed)

	status, err = db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.Version)
	assert.False(t, status.Dirty)

	var count int
	require.NoError(t, db.DB.Get(&count, "SELECT COUNT(*) FROM kv_slots"))
	assert.Zero(t, count)

	changed, err = db.MigrateDown()
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestNewConnection_RejectsNonSQLBackend(t *testing.T) {
	_, err := NewConnection(config.StorageConfig{Backend: config.BackendRedis})
	assert.Error(t, err)
}
