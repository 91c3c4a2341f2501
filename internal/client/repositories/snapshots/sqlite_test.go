package snapshots

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE snapshots (
  key      TEXT PRIMARY KEY,
  value    BLOB NOT NULL,
  saved_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.Put(ctx, &Snapshot{Key: "market", Value: []byte(`{"cargo":[]}`), SavedAt: at}))

	s, err := r.Get(ctx, "market")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"cargo":[]}`), s.Value)
	assert.True(t, at.Equal(s.SavedAt))
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPut_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &Snapshot{Key: "k", Value: []byte("old"), SavedAt: time.Unix(1, 0)}))
	require.NoError(t, r.Put(ctx, &Snapshot{Key: "k", Value: []byte("new"), SavedAt: time.Unix(2, 0)}))

	s, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), s.Value)
	assert.Equal(t, int64(2), s.SavedAt.Unix())
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &Snapshot{Key: "k", Value: []byte("v"), SavedAt: time.Now()}))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, &Snapshot{Key: "a", Value: []byte("1"), SavedAt: time.Now()}))
	require.NoError(t, r.Put(ctx, &Snapshot{Key: "b", Value: []byte("2"), SavedAt: time.Now()}))
	require.NoError(t, r.Clear(ctx))

	_, err := r.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClosedDB_WrapsErrors(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Error(t, r.Put(context.Background(), &Snapshot{Key: "k"}))
}
