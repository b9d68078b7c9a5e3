// Package records stores study sessions and runs the aggregation queries
// over them. Every statement is filtered by user_id.
package records

import (
	"context"
	"time"

	"github.com/studylog/studylog/internal/server/models"
)

// Range bounds study_date inclusively. A zero From or To leaves that side open.
type Range struct {
	From time.Time
	To   time.Time
}

type Repository interface {
	Create(ctx context.Context, rec *models.StudyRecord) error
	// Get returns common.ErrorNotFound for missing and foreign records alike.
	Get(ctx context.Context, id, userID string) (*models.StudyRecord, error)
	// Delete reports whether a row owned by userID was removed.
	Delete(ctx context.Context, id, userID string) (bool, error)
	// ListByUser orders by study_date then created_at, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error)

	// DailyTotals sums seconds, hits and mistakes per study_date, oldest first.
	DailyTotals(ctx context.Context, userID string, r Range) ([]models.DayTotal, error)
	// SubjectTotals sums duration, hits and mistakes per subject over all history.
	SubjectTotals(ctx context.Context, userID string) ([]models.SubjectSummary, error)
	// DaySubjects sums duration per subject for a single study_date.
	DaySubjects(ctx context.Context, userID string, day time.Time) ([]models.SubjectMinutes, error)
}
