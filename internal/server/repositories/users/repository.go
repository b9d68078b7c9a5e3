// Package users declares and implements storage of user accounts.
package users

import (
	"context"

	"github.com/studylog/studylog/internal/server/models"
)

type Repository interface {
	// Create inserts u. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
