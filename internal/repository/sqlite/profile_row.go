package sqlite

import (
	"database/sql"

	"github.com/vytor/karrito/internal/models"
)

var profileColumns = []string{
	"id", "name", "display_name", "minecraft_username", "microsoft_account_id",
	"profile_type", "java_path", "java_args", "min_memory_mb", "max_memory_mb",
	"game_directory", "is_active", "created_at", "updated_at",
}

// profileRow mirrors a user_profiles row with the driver's nullable types.
type profileRow struct {
	ID                 int64
	Name               string
	DisplayName        string
	MinecraftUsername  sql.NullString
	MicrosoftAccountID sql.NullString
	ProfileType        sql.NullString
	JavaPath           sql.NullString
	JavaArgs           sql.NullString
	MinMemoryMB        sql.NullInt64
	MaxMemoryMB        sql.NullInt64
	GameDirectory      sql.NullString
	IsActive           sql.NullBool
	CreatedAt          sql.NullTime
	UpdatedAt          sql.NullTime
}

// dest returns scan targets in profileColumns order.
func (r *profileRow) dest() []any {
	return []any{
		&r.ID, &r.Name, &r.DisplayName, &r.MinecraftUsername, &r.MicrosoftAccountID,
		&r.ProfileType, &r.JavaPath, &r.JavaArgs, &r.MinMemoryMB, &r.MaxMemoryMB,
		&r.GameDirectory, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	}
}

// toModel maps a row to a Profile. NULL memory bounds fall back to the
// column defaults.
func (r profileRow) toModel() models.Profile {
	p := models.Profile{
		ID:                 r.ID,
		Name:               r.Name,
		DisplayName:        r.DisplayName,
		MinecraftUsername:  r.MinecraftUsername.String,
		MicrosoftAccountID: r.MicrosoftAccountID.String,
		Kind:               models.ParseProfileKind(r.ProfileType.String),
		JavaPath:           r.JavaPath.String,
		JavaArgs:           r.JavaArgs.String,
		MinMemoryMB:        models.DefaultMinMemoryMB,
		MaxMemoryMB:        models.DefaultMaxMemoryMB,
		GameDirectory:      r.GameDirectory.String,
		IsActive:           r.IsActive.Valid && r.IsActive.Bool,
	}
	if r.MinMemoryMB.Valid {
		p.MinMemoryMB = int(r.MinMemoryMB.Int64)
	}
	if r.MaxMemoryMB.Valid {
		p.MaxMemoryMB = int(r.MaxMemoryMB.Int64)
	}
	if r.CreatedAt.Valid {
		p.CreatedAt = r.CreatedAt.Time.UTC()
	}
	if r.UpdatedAt.Valid {
		p.UpdatedAt = r.UpdatedAt.Time.UTC()
	}
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(s rowScanner) (models.Profile, error) {
	var row profileRow
	if err := s.Scan(row.dest()...); err != nil {
		return models.Profile{}, err
	}
	return row.toModel(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
