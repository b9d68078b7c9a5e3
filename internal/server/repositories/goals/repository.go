// Package goals stores the per-user weekly goal.
package goals

import (
	"context"

	"github.com/studylog/studylog/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user never saved a goal.
	Get(ctx context.Context, userID string) (*models.WeeklyGoal, error)
	// Upsert inserts the first goal or overwrites the existing one.
	Upsert(ctx context.Context, g *models.WeeklyGoal) error
}
