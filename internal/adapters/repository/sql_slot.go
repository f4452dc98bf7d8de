package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/todo/internal/infrastructure/database"
)

// SQLSlot stores slot values in the kv_slots table. The same queries run on
// SQLite and PostgreSQL; sqlx rebinds the placeholders per driver.
type SQLSlot struct {
	conn *database.DB
	db   *sqlx.DB
	now  func() time.Time
}

// NewSQLSlot creates a slot over an already migrated database
func NewSQLSlot(conn *database.DB) *SQLSlot {
	return &SQLSlot{conn: conn, db: conn.DB, now: time.Now}
}

func (s *SQLSlot) Read(ctx context.Context, key string) ([]byte, bool, error) {
	query := s.db.Rebind(`SELECT slot_value FROM kv_slots WHERE slot_key = ?`)

	var value string
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLSlot) Write(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv_slots (slot_key, slot_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE
		SET slot_value = excluded.slot_value, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), s.now().UnixMilli()); err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written
func (s *SQLSlot) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	query := s.db.Rebind(`SELECT updated_at FROM kv_slots WHERE slot_key = ?`)

	var ms int64
	if err := s.db.GetContext(ctx, &ms, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return time.UnixMilli(ms), true, nil
}

// HealthCheck pings the underlying database
func (s *SQLSlot) HealthCheck(ctx context.Context) error {
	return s.conn.HealthCheck(ctx)
}

func (s *SQLSlot) Close() error {
	return s.conn.Close()
}
