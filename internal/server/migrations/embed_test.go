package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
)

func TestEmbeddedDirsMatchDialects(t *testing.T) {
	for _, dir := range []string{dbx.DialectPostgres, dbx.DialectSQLite} {
		entries, err := Migrations.ReadDir(dir)
		require.NoError(t, err, dir)
		assert.Len(t, entries, 3, dir)
	}
}

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Up(ctx, db, dbx.SQLite{}))
	// a second run is a no-op
	require.NoError(t, Up(ctx, db, dbx.SQLite{}))

	for _, table := range []string{"users", "study_records", "weekly_goals", "subject_colors", "refresh_tokens"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestUp_LogsThroughContextLogger(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	l, err := logging.New("info", "json", &buf)
	require.NoError(t, err)

	ctx := logging.IntoContext(context.Background(), l)
	require.NoError(t, Up(ctx, db, dbx.SQLite{}))

	out := buf.String()
	assert.Contains(t, out, `"component":"goose"`)
	assert.Contains(t, out, "00001_users.sql")
}
