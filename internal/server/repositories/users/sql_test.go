package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repotest"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.Postgres{}), mock
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestCreate_Postgres(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*first_name,\s*last_name,\s*email,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)$`
	mock.ExpectExec(q).
		WithArgs("u-1", "Ana", "Silva", "ana@example.com", "hash", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.User{
		ID: "u-1", FirstName: "Ana", LastName: "Silva", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: created,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{ID: "u-1"})
	require.ErrorIs(t, err, common.ErrStore)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "created_at"}).
		AddRow("u-1", "Ana", "Silva", "ana@example.com", "hash", created)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, created, u.CreatedAt)
}

func TestSQLite_CreateAndDuplicateEmail(t *testing.T) {
	db := repotest.NewSQLite(t)
	repo := NewSQLRepository(db, dbx.SQLite{})
	ctx := context.Background()

	u := &models.User{ID: "u-1", FirstName: "Ana", Email: "ana@example.com", PasswordHash: "h", CreatedAt: created}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.True(t, created.Equal(got.CreatedAt))

	dup := &models.User{ID: "u-2", FirstName: "Other", Email: "ana@example.com", PasswordHash: "h", CreatedAt: created}
	err = repo.Create(ctx, dup)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}
