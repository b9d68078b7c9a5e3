package repomanager

import (
	"context"
	"database/sql"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/migrations"
	"github.com/studylog/studylog/internal/server/repositories/colors"
	"github.com/studylog/studylog/internal/server/repositories/goals"
	"github.com/studylog/studylog/internal/server/repositories/records"
	"github.com/studylog/studylog/internal/server/repositories/refreshtokens"
	"github.com/studylog/studylog/internal/server/repositories/users"
)

// SQLRepositoryManager builds the database/sql repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return records.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Goals(db dbx.DBTX) goals.Repository {
	return goals.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Colors(db dbx.DBTX) colors.Repository {
	return colors.NewSQLRepository(db, m.dialect)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, m.dialect)
}

// Dialect is the backend the repositories are built for.
func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

func NewSQLRepositoryManager(d dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: d}
}
