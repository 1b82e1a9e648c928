package repository

import (
	"context"

	"github.com/vytor/karrito/internal/models"
)

// ProfileRepository is the only component that issues SQL against user_profiles.
// Find methods return (nil, nil) when nothing matches.
type ProfileRepository interface {
	Create(ctx context.Context, profile models.Profile) (*models.Profile, error)
	FindByID(ctx context.Context, id int64) (*models.Profile, error)
	FindByName(ctx context.Context, name string) (*models.Profile, error)
	FindAll(ctx context.Context) ([]models.Profile, error)
	FindActive(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, profile models.Profile) (*models.Profile, error)
	// SetActive deactivates every profile and activates id in one transaction.
	SetActive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	// DeleteAndActivate activates promoteID and deletes deleteID in one transaction.
	DeleteAndActivate(ctx context.Context, deleteID, promoteID int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// SettingsRepository handles launcher_settings rows.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	SetValue(ctx context.Context, key, value string) error
}
