// Package repomanager vends repositories bound to a pool or a transaction
// and applies schema migrations for the configured dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/server/repositories/colors"
	"github.com/studylog/studylog/internal/server/repositories/goals"
	"github.com/studylog/studylog/internal/server/repositories/records"
	"github.com/studylog/studylog/internal/server/repositories/refreshtokens"
	"github.com/studylog/studylog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Records(db dbx.DBTX) records.Repository
	Goals(db dbx.DBTX) goals.Repository
	Colors(db dbx.DBTX) colors.Repository
}
