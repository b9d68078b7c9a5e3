package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
	"github.com/studylog/studylog/internal/server/repositories/repotest"
)

// env wires every service over an in-memory SQLite database and a shared
// fake clock.
type env struct {
	db      *sql.DB
	cache   *cache.Cache
	users   *UserService
	recs    *RecordService
	colors  *ColorService
	goals   *GoalService
	reports *ReportService
	clock   *time.Time
	ctx     context.Context
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()

	db := repotest.NewSQLite(t)
	rm := repomanager.NewSQLRepositoryManager(dbx.SQLite{})
	c := cache.New(128, time.Minute)
	log := logging.Nop()
	cfg := testConfig()

	clock := now
	nowFn := func() time.Time { return clock }

	users := NewUserService(db, rm, c, cfg, log)
	users.now = nowFn
	users.bcryptCost = bcrypt.MinCost

	recs := NewRecordService(db, rm, c, log)
	recs.now = nowFn
	colorSvc := NewColorService(db, rm, c, log)
	colorSvc.now = nowFn
	goalSvc := NewGoalService(db, rm, c, log)
	goalSvc.now = nowFn

	return &env{
		db:      db,
		cache:   c,
		users:   users,
		recs:    recs,
		colors:  colorSvc,
		goals:   goalSvc,
		reports: NewReportService(db, rm, c, users, colorSvc, goalSvc),
		clock:   &clock,
		ctx:     context.Background(),
	}
}

// signUp registers a user whose account was created at the current clock.
func (e *env) signUp(t *testing.T, email string) string {
	t.Helper()
	u, err := e.users.Register(e.ctx, "Test", "User", email, "secret1")
	require.NoError(t, err)
	return u.ID
}

func (e *env) record(t *testing.T, userID, date, subject string, secs int, hits, mistakes *int) string {
	t.Helper()
	id, err := e.recs.Create(e.ctx, userID, models.NewStudyRecord{
		StudyDate:   mustDay(t, date),
		Category:    "practice",
		Subject:     subject,
		DurationSec: secs,
		Hits:        hits,
		Mistakes:    mistakes,
	})
	require.NoError(t, err)
	e.advance(time.Second)
	return id
}

func (e *env) advance(d time.Duration) { *e.clock = e.clock.Add(d) }

func ptr[T any](v T) *T { return &v }
