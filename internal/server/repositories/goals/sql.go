package goals

import (
	"context"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

func (r *SQLRepository) Get(ctx context.Context, userID string) (*models.WeeklyGoal, error) {
	query := r.d.Rebind(`SELECT user_id, target_hours, target_questions, updated_at
		FROM weekly_goals WHERE user_id = ?`)

	g := &models.WeeklyGoal{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&g.UserID, &g.TargetHours, &g.TargetQuestions, &g.UpdatedAt)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return g, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, g *models.WeeklyGoal) error {
	query := r.d.Rebind(`INSERT INTO weekly_goals (user_id, target_hours, target_questions, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			target_hours = excluded.target_hours,
			target_questions = excluded.target_questions,
			updated_at = excluded.updated_at`)

	if _, err := r.db.ExecContext(ctx, query, g.UserID, g.TargetHours, g.TargetQuestions, g.UpdatedAt.UTC()); err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}
