package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/karrito/internal/repository"
)

// SetAfterDeactivateHook installs a hook that runs between the two SetActive
// steps.
func SetAfterDeactivateHook(repo repository.ProfileRepository, fn func(ctx context.Context, tx *sql.Tx) error) {
	repo.(*profileRepository).afterDeactivate = fn
}
