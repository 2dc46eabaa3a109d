package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/geomingle/internal/db"
)

// SQLiteSlotRepo implements SlotRepo on the slots table.
type SQLiteSlotRepo struct {
	db db.DBTX
}

// NewSQLiteSlotRepo creates a new SQLiteSlotRepo. Pass a *sql.Tx to scope it
// to a transaction.
func NewSQLiteSlotRepo(conn db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: conn}
}

func (r *SQLiteSlotRepo) Get(ctx context.Context, key string) (*Slot, error) {
	query := `SELECT key, value, revision, updated_at FROM slots WHERE key = ?`
	var s Slot
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&s.Key, &s.Value, &s.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", key, err)
	}
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

func (r *SQLiteSlotRepo) Put(ctx context.Context, key, value string) (int64, error) {
	query := `INSERT INTO slots (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = slots.revision + 1, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return 0, fmt.Errorf("writing slot %s: %w", key, err)
	}

	var rev int64
	if err := r.db.QueryRowContext(ctx, `SELECT revision FROM slots WHERE key = ?`, key).Scan(&rev); err != nil {
		return 0, fmt.Errorf("reading slot revision %s: %w", key, err)
	}
	return rev, nil
}

func (r *SQLiteSlotRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
