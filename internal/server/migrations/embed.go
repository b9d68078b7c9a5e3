// Package migrations embeds the goose schema migrations, one directory per
// database dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// gooseLogger forwards goose output to a logging.Logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}

// Up applies every pending migration for the dialect of db. Progress goes
// to the logger carried by ctx, and nowhere when there is none.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	if l := logging.FromContext(ctx, nil); l != nil {
		goose.SetLogger(gooseLogger{ctx: ctx, log: l})
	} else {
		goose.SetLogger(goose.NopLogger())
	}

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, d.Name()); err != nil {
		return fmt.Errorf("migrate %s: %w", d.Name(), err)
	}
	return nil
}
