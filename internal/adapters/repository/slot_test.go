package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/database"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// exerciseSlot checks the behaviour every slot implementation shares
func exerciseSlot(t *testing.T, slot ports.Slot) {
	t.Helper()
	ctx := context.Background()

	_, found, err := slot.Read(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, slot.Write(ctx, "tasks", []byte(`[{"id":"a"}]`)))
	got, found, err := slot.Read(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, slot.Write(ctx, "tasks", []byte(`[]`)))
	got, found, err = slot.Read(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, slot.Write(ctx, "other", []byte(`x`)))
	got, _, err = slot.Read(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot()
	exerciseSlot(t, slot)

	require.NoError(t, slot.Close())
	_, _, err := slot.Read(context.Background(), "tasks")
	assert.ErrorIs(t, err, entities.ErrSlotClosed)
	assert.ErrorIs(t, slot.Write(context.Background(), "tasks", nil), entities.ErrSlotClosed)
}

func TestMemorySlot_CopiesValues(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()

	value := []byte("abc")
	require.NoError(t, slot.Write(ctx, "k", value))
	value[0] = 'z'

	got, _, _ := slot.Read(ctx, "k")
	assert.Equal(t, "abc", string(got))
}

func TestFileSlot(t *testing.T) {
	slot, err := NewFileSlot(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseSlot(t, slot)
}

func TestFileSlot_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileSlot(dir)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, entities.DefaultSlotKey, []byte(`[1]`)))

	second, err := NewFileSlot(dir)
	require.NoError(t, err)
	got, found, err := second.Read(ctx, entities.DefaultSlotKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1]`, string(got))

	assert.Equal(t, filepath.Join(dir, "interactive-todo-app-tasks.json"), second.Path(entities.DefaultSlotKey))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileSlot_KeyCannotEscapeDir(t *testing.T) {
	slot, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)

	path := slot.Path("../../etc/passwd")
	assert.Equal(t, slot.dir, filepath.Dir(path))
}

func TestFileSlot_WriteFailsWhenDirIsGone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	slot, err := NewFileSlot(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, slot.Write(context.Background(), "tasks", []byte(`[]`)))
}

func TestSQLSlot_SQLite(t *testing.T) {
	db, err := database.NewSQLite(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "todo.db")})
	require.NoError(t, err)
	_, err = db.MigrateUp()
	require.NoError(t, err)

	slot := NewSQLSlot(db)
	t.Cleanup(func() { slot.Close() })
	exerciseSlot(t, slot)
	assert.NoError(t, slot.HealthCheck(context.Background()))

	at, found, err := slot.UpdatedAt(context.Background(), "tasks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, at.IsZero())
}

func TestRedisSlot(t *testing.T) {
	addr := os.Getenv("TODO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TODO_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.FlushDB(context.Background()).Err())

	slot := NewRedisSlotFromClient(client)
	t.Cleanup(func() { slot.Close() })
	exerciseSlot(t, slot)
}

func TestNewSlot(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	fileSlot, err := NewSlot(ctx, config.StorageConfig{Backend: config.BackendFile, Dir: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &FileSlot{}, fileSlot)

	memSlot, err := NewSlot(ctx, config.StorageConfig{Backend: config.BackendMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemorySlot{}, memSlot)

	sqlSlot, err := NewSlot(ctx, config.StorageConfig{
		Backend: config.BackendSQLite,
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "todo.db")},
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlSlot.Close() })
	exerciseSlot(t, sqlSlot)

	_, err = NewSlot(ctx, config.StorageConfig{Backend: "tape"}, log)
	assert.ErrorIs(t, err, entities.ErrUnknownBackend)
}
