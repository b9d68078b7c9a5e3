package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/datex"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
)

// RecordService creates, deletes and lists study records. Every write drops
// the record-derived cache entries of the owning user.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	log         logging.Logger
	now         func() time.Time
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache, log logging.Logger) *RecordService {
	return &RecordService{db: db, repomanager: m, cache: c, log: log, now: time.Now}
}

// Create stores a record and returns its id. String fields are trimmed and
// blank optional strings are stored as NULL. The study date is taken as is.
func (s *RecordService) Create(ctx context.Context, userID string, in models.NewStudyRecord) (string, error) {
	rec := &models.StudyRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		StudyDate:   datex.Day(in.StudyDate),
		Category:    strings.TrimSpace(in.Category),
		Subject:     strings.TrimSpace(in.Subject),
		Topic:       common.NullableString(in.Topic),
		DurationSec: in.DurationSec,
		Hits:        in.Hits,
		Mistakes:    in.Mistakes,
		PageStart:   in.PageStart,
		PageEnd:     in.PageEnd,
		Comment:     common.NullableString(in.Comment),
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repomanager.Records(s.db).Create(ctx, rec); err != nil {
		s.log.Error(ctx, "create record failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("error creating record: %w", err)
	}

	s.cache.Invalidate(userID, cache.RecordKinds...)
	return rec.ID, nil
}

// Delete removes the record only when userID owns it. false means the
// record does not exist or belongs to someone else.
func (s *RecordService) Delete(ctx context.Context, userID, recordID string) (bool, error) {
	ok, err := s.repomanager.Records(s.db).Delete(ctx, recordID, userID)
	if err != nil {
		s.log.Error(ctx, "delete record failed", "user_id", userID, "record_id", recordID, "error", err)
		return false, fmt.Errorf("error deleting record: %w", err)
	}
	if ok {
		s.cache.Invalidate(userID, cache.RecordKinds...)
	}
	return ok, nil
}

func (s *RecordService) Get(ctx context.Context, userID, recordID string) (*models.StudyRecord, error) {
	return s.repomanager.Records(s.db).Get(ctx, recordID, userID)
}

// List returns every record of the user, newest first.
func (s *RecordService) List(ctx context.Context, userID string) ([]models.StudyRecord, error) {
	return cache.Load(s.cache, userID, cache.KindRecords, "", func() ([]models.StudyRecord, error) {
		return s.repomanager.Records(s.db).ListByUser(ctx, userID)
	})
}
