package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studylog/studylog/internal/common"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "postgres", want: DialectPostgres},
		{in: "PGX", want: DialectPostgres},
		{in: " sqlite ", want: DialectSQLite},
		{in: "sqlite3", want: DialectSQLite},
		{in: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := DialectFor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestPostgres_Rebind(t *testing.T) {
	q := Postgres{}.Rebind(`SELECT * FROM t WHERE a = ? AND b = '?' AND c BETWEEN ? AND ?`)
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = '?' AND c BETWEEN $2 AND $3`, q)
}

func TestSQLite_RebindIsIdentity(t *testing.T) {
	q := `SELECT 1 WHERE a = ?`
	assert.Equal(t, q, SQLite{}.Rebind(q))
}

func TestPostgres_IsUniqueViolation(t *testing.T) {
	pg := Postgres{}
	dup := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, pg.IsUniqueViolation(dup))
	assert.False(t, pg.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, pg.IsUniqueViolation(errors.New("plain")))
}

func TestSQLite_IsUniqueViolation(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO t(v) VALUES ('x')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO t(v) VALUES ('x')`)
	require.Error(t, err)
	assert.True(t, SQLite{}.IsUniqueViolation(err))
	assert.False(t, SQLite{}.IsUniqueViolation(errors.New("plain")))
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), SQLite{}, ":memory:", PoolOptions{MaxOpenConns: 1, ConnectRetries: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), fakeDialect{}, "x", PoolOptions{})
	require.Error(t, err)
}

type fakeDialect struct{ SQLite }

func (fakeDialect) DriverName() string { return "nope" }

func TestStoreError(t *testing.T) {
	assert.NoError(t, StoreError(SQLite{}, nil))
	assert.ErrorIs(t, StoreError(SQLite{}, sql.ErrNoRows), common.ErrorNotFound)

	err := StoreError(Postgres{}, &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.NotErrorIs(t, err, common.ErrStore)

	err = StoreError(Postgres{}, errors.New("conn reset"))
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Contains(t, err.Error(), "db error: ")
}
