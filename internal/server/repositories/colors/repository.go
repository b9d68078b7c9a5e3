// Package colors stores per-user subject colors keyed by the exact subject text.
package colors

import (
	"context"

	"github.com/studylog/studylog/internal/server/models"
)

type Repository interface {
	// List returns every persisted color of the user, ordered by subject.
	List(ctx context.Context, userID string) ([]models.SubjectColor, error)
	// Upsert sets the color, replacing any previous one.
	Upsert(ctx context.Context, c *models.SubjectColor) error
	// Ensure stores the color only if the subject has none yet. Concurrent
	// calls for the same key neither fail nor duplicate the row.
	Ensure(ctx context.Context, c *models.SubjectColor) error
}
