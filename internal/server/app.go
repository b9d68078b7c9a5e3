// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/config"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
	"github.com/studylog/studylog/internal/server/rest"
	"github.com/studylog/studylog/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager *repomanager.SQLRepositoryManager
	http        *rest.Server
}

// NewApp opens the database and builds every service. The caller owns the
// returned App and must Run or Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	d, err := dbx.DialectFor(c.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, d, c.Database.DSN, dbx.PoolOptions{
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnectRetries:  c.Database.ConnectRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(d)
	rc := cache.New(c.CacheSize, c.CacheTTL)

	users := services.NewUserService(db, rm, rc, c, logger)
	records := services.NewRecordService(db, rm, rc, logger)
	colors := services.NewColorService(db, rm, rc, logger)
	goals := services.NewGoalService(db, rm, rc, logger)

	srv := rest.NewServer(c.HTTPAddr, logger, rest.Services{
		Users:   users,
		Records: records,
		Reports: services.NewReportService(db, rm, rc, users, colors, goals),
		Colors:  colors,
		Goals:   goals,
		Exports: services.NewExportService(records, c.S3, logger),
	}, c.SecretKey)

	return &App{config: c, logger: logger, db: db, repomanager: rm, http: srv}, nil
}

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	app.logger.Info(ctx, "Applying migrations", "driver", app.repomanager.Dialect().Name())
	ctx = logging.IntoContext(ctx, app.logger)
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run migrates the schema and serves HTTP until ctx is cancelled or a
// termination signal arrives. The database is closed on return.
func (app *App) Run(ctx context.Context) (err error) {
	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()
	defer func() {
		err = errors.Join(err, app.Close())
	}()

	app.logger.Info(ctx, "Starting app...")

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.http.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}
