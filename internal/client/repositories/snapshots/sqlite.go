package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/dmitrijs2005/shipmarket/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*Snapshot, error) {
	var (
		s       = &Snapshot{Key: key}
		savedAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT value, saved_at FROM snapshots WHERE key = ?`, key).Scan(&s.Value, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot[%s]: %w", key, err)
	}
	s.SavedAt = time.Unix(0, savedAt).UTC()
	return s, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, s *Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at
	`, s.Key, s.Value, s.SavedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put snapshot[%s]: %w", s.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}
