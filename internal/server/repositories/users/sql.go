package users

import (
	"context"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/models"
)

// SQLRepository stores users through any DBTX (a pool or a transaction).
type SQLRepository struct {
	db dbx.DBTX
	d  dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

const selectUser = `SELECT id, first_name, last_name, email, password_hash, created_at FROM users`

func (r *SQLRepository) Create(ctx context.Context, u *models.User) error {
	query := r.d.Rebind(
		`INSERT INTO users (id, first_name, last_name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil {
		return dbx.StoreError(r.d, err)
	}
	return nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = ?`, email)
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = ?`, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, r.d.Rebind(query), arg).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, dbx.StoreError(r.d, err)
	}
	return u, nil
}
