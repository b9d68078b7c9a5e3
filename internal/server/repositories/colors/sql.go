package colors

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

func (r *SQLRepository) List(ctx context.Context, userID string) ([]models.SubjectColor, error) {
	query := r.d.Rebind(`SELECT user_id, subject, color_hex, updated_at
		FROM subject_colors
		WHERE user_id = ?
		ORDER BY subject`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	defer rows.Close()

	out := []models.SubjectColor{}
	for rows.Next() {
		var c models.SubjectColor
		if err := rows.Scan(&c.UserID, &c.Subject, &c.ColorHex, &c.UpdatedAt); err != nil {
			return nil, dbx.StoreError(r.d, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return out, nil
}

const insertColor = `INSERT INTO subject_colors (user_id, subject, color_hex, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, subject) `

func (r *SQLRepository) Upsert(ctx context.Context, c *models.SubjectColor) error {
	query := r.d.Rebind(insertColor + `DO UPDATE SET
			color_hex = excluded.color_hex,
			updated_at = excluded.updated_at`)
	return r.exec(ctx, query, c)
}

func (r *SQLRepository) Ensure(ctx context.Context, c *models.SubjectColor) error {
	return r.exec(ctx, r.d.Rebind(insertColor+`DO NOTHING`), c)
}

func (r *SQLRepository) exec(ctx context.Context, query string, c *models.SubjectColor) error {
	if _, err := r.db.ExecContext(ctx, query, c.UserID, c.Subject, c.ColorHex, c.UpdatedAt.UTC()); err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}
