package refreshtokens

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

func (r *SQLRepository) Create(ctx context.Context, t *models.RefreshToken) error {
	query := r.d.Rebind(`
		INSERT INTO refresh_tokens (id, user_id, token, expires, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Token, t.Expires.UTC(), t.CreatedAt.UTC()); err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := r.d.Rebind(`
		SELECT id, user_id, token, expires, created_at
		FROM refresh_tokens
		WHERE token = ?
	`)
	t := &models.RefreshToken{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.Expires, &t.CreatedAt); err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) error {
	query := r.d.Rebind(`
		DELETE FROM refresh_tokens
		WHERE token = ?
	`)
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}
