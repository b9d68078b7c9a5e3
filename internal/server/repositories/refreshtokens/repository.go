// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"

	"github.com/studylog/studylog/internal/server/models"
)

type Repository interface {
	// Create stores t; ID, UserID, Token, Expires and CreatedAt must be set.
	Create(ctx context.Context, t *models.RefreshToken) error

	// Find looks up a token by its opaque string. A missing token yields
	// common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
}
