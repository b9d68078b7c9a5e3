package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/studylog/studylog/internal/colorx"
	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/dbx"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
)

// ColorService resolves subject colors. A persisted color always wins over
// the hash-derived default, which is stored the first time a subject shows up.
type ColorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	log         logging.Logger
	now         func() time.Time
}

func NewColorService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache, log logging.Logger) *ColorService {
	return &ColorService{db: db, repomanager: m, cache: c, log: log, now: time.Now}
}

func (s *ColorService) List(ctx context.Context, userID string) ([]models.SubjectColor, error) {
	return cache.Load(s.cache, userID, cache.KindColors, "", func() ([]models.SubjectColor, error) {
		return s.repomanager.Colors(s.db).List(ctx, userID)
	})
}

// Set overrides the color of subject. hex must look like #RRGGBB.
func (s *ColorService) Set(ctx context.Context, userID, subject, hex string) (*models.SubjectColor, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", common.ErrValidation)
	}
	hex, ok := colorx.Normalize(hex)
	if !ok {
		return nil, fmt.Errorf("%w: color must be #RRGGBB", common.ErrValidation)
	}

	c := &models.SubjectColor{
		UserID:    userID,
		Subject:   subject,
		ColorHex:  hex,
		UpdatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repomanager.Colors(s.db).Upsert(ctx, c); err != nil {
		s.log.Error(ctx, "set subject color failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("error saving color: %w", err)
	}

	s.cache.Invalidate(userID, cache.KindColors)
	return c, nil
}

// Resolve maps every subject to its color, persisting defaults for subjects
// seen for the first time.
func (s *ColorService) Resolve(ctx context.Context, userID string, subjects []string) (map[string]string, error) {
	known, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(subjects))
	for _, c := range known {
		out[c.Subject] = c.ColorHex
	}

	var missing []string
	for _, subj := range subjects {
		if _, ok := out[subj]; !ok {
			missing = append(missing, subj)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Colors(tx)
		for _, subj := range missing {
			c := &models.SubjectColor{UserID: userID, Subject: subj, ColorHex: colorx.For(subj), UpdatedAt: now}
			if err := repo.Ensure(ctx, c); err != nil {
				return err
			}
		}
		// a concurrent writer may have stored a different color first
		stored, err := repo.List(ctx, userID)
		if err != nil {
			return err
		}
		for _, c := range stored {
			out[c.Subject] = c.ColorHex
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "persist default colors failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("error ensuring colors: %w", err)
	}

	s.cache.Invalidate(userID, cache.KindColors)
	return out, nil
}
