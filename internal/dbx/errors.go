package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/studylog/studylog/internal/common"
)

// StoreError wraps a driver failure so callers can match common.ErrStore.
// sql.ErrNoRows becomes common.ErrorNotFound and a unique violation,
// as judged by d, becomes common.ErrorAlreadyExists.
func StoreError(d Dialect, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case d != nil && d.IsUniqueViolation(err):
		return fmt.Errorf("db error: %w: %w", common.ErrorAlreadyExists, err)
	default:
		return fmt.Errorf("db error: %w: %w", common.ErrStore, err)
	}
}
