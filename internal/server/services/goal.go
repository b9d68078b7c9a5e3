package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studylog/studylog/internal/common"
	"github.com/studylog/studylog/internal/logging"
	"github.com/studylog/studylog/internal/server/cache"
	"github.com/studylog/studylog/internal/server/models"
	"github.com/studylog/studylog/internal/server/repositories/repomanager"
)

type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	log         logging.Logger
	now         func() time.Time
}

func NewGoalService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache, log logging.Logger) *GoalService {
	return &GoalService{db: db, repomanager: m, cache: c, log: log, now: time.Now}
}

// Get returns the user's weekly goal, or a zero goal when none was saved.
func (s *GoalService) Get(ctx context.Context, userID string) (*models.WeeklyGoal, error) {
	return cache.Load(s.cache, userID, cache.KindGoal, "", func() (*models.WeeklyGoal, error) {
		g, err := s.repomanager.Goals(s.db).Get(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return &models.WeeklyGoal{UserID: userID}, nil
		}
		return g, err
	})
}

// Save inserts or overwrites the weekly goal.
func (s *GoalService) Save(ctx context.Context, userID string, targetHours, targetQuestions int) (*models.WeeklyGoal, error) {
	if targetHours < 0 || targetQuestions < 0 {
		return nil, fmt.Errorf("%w: targets must not be negative", common.ErrValidation)
	}

	g := &models.WeeklyGoal{
		UserID:          userID,
		TargetHours:     targetHours,
		TargetQuestions: targetQuestions,
		UpdatedAt:       s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repomanager.Goals(s.db).Upsert(ctx, g); err != nil {
		s.log.Error(ctx, "save weekly goal failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("error saving goal: %w", err)
	}

	s.cache.Invalidate(userID, cache.KindGoal)
	return g, nil
}
