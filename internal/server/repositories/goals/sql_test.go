package goals

import (
	"context"
	"errors"
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

func TestUpsert_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+weekly_goals.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE`).
		WithArgs("u-1", 10, 50, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSQLRepository(db, dbx.Postgres{})
	require.NoError(t, repo.Upsert(context.Background(), &models.WeeklyGoal{UserID: "u-1", TargetHours: 10, TargetQuestions: 50, UpdatedAt: now}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_DBError_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+weekly_goals\s+WHERE\s+user_id\s*=\s*\$1`).WithArgs("u-1").WillReturnError(errors.New("timeout"))

	_, err = NewSQLRepository(db, dbx.Postgres{}).Get(context.Background(), "u-1")
	require.ErrorIs(t, err, common.ErrStore)
}

func TestSQLite_UpsertOverwrites(t *testing.T) {
	db := repotest.NewSQLite(t)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	repotest.SeedUser(t, db, "u-1", now)

	repo := NewSQLRepository(db, dbx.SQLite{})
	ctx := context.Background()

	_, err := repo.Get(ctx, "u-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Upsert(ctx, &models.WeeklyGoal{UserID: "u-1", TargetHours: 10, TargetQuestions: 100, UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &models.WeeklyGoal{UserID: "u-1", TargetHours: 12, TargetQuestions: 80, UpdatedAt: now.Add(time.Hour)}))

	g, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 12, g.TargetHours)
	assert.Equal(t, 80, g.TargetQuestions)
	assert.True(t, now.Add(time.Hour).Equal(g.UpdatedAt))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM weekly_goals`).Scan(&n))
	assert.Equal(t, 1, n)
}
