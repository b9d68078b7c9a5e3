package colors

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repotest"
)

func TestEnsure_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+subject_colors.*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*ON\s+CONFLICT\s+\(user_id,\s*subject\)\s+DO\s+NOTHING$`).
		WithArgs("u-1", "Math", "#C0ADE0", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db, dbx.Postgres{})
	require.NoError(t, repo.Ensure(context.Background(), &models.SubjectColor{UserID: "u-1", Subject: "Math", ColorHex: "#C0ADE0", UpdatedAt: now}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_EnsureIsIdempotentAndUpsertOverrides(t *testing.T) {
	db := repotest.NewSQLite(t)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	repotest.SeedUser(t, db, "u-1", now)
	repotest.SeedUser(t, db, "u-2", now)

	repo := NewSQLRepository(db, dbx.SQLite{})
	ctx := context.Background()

	c := &models.SubjectColor{UserID: "u-1", Subject: "Math", ColorHex: "#111111", UpdatedAt: now}
	require.NoError(t, repo.Ensure(ctx, c))
	require.NoError(t, repo.Ensure(ctx, &models.SubjectColor{UserID: "u-1", Subject: "Math", ColorHex: "#222222", UpdatedAt: now}))
	// different casing is a different subject
	require.NoError(t, repo.Ensure(ctx, &models.SubjectColor{UserID: "u-1", Subject: "math", ColorHex: "#333333", UpdatedAt: now}))
	require.NoError(t, repo.Ensure(ctx, &models.SubjectColor{UserID: "u-2", Subject: "Math", ColorHex: "#444444", UpdatedAt: now}))

	got, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Math", got[0].Subject)
	assert.Equal(t, "#111111", got[0].ColorHex)
	assert.Equal(t, "math", got[1].Subject)

	require.NoError(t, repo.Upsert(ctx, &models.SubjectColor{UserID: "u-1", Subject: "Math", ColorHex: "#ABCDEF", UpdatedAt: now.Add(time.Minute)}))
	got, err = repo.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "#ABCDEF", got[0].ColorHex)
	assert.True(t, now.Add(time.Minute).Equal(got[0].UpdatedAt))
}
