// Package repotest provides an in-memory SQLite database with the real
// schema applied, for repository and service tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/migrations"
)

// NewSQLite opens a private in-memory database and migrates it. A single
// connection keeps every query on the same in-memory instance.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := dbx.Open(context.Background(), dbx.SQLite{}, "file::memory:?_pragma=foreign_keys(1)", dbx.PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite{}))
	return db
}

// SeedUser inserts a bare user row so records can reference it.
func SeedUser(t testing.TB, db *sql.DB, id string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO users (id, first_name, last_name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, "Test", "User", id+"@example.com", "x", createdAt.UTC(),
	)
	require.NoError(t, err)
}
