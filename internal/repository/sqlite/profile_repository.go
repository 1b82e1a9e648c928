package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/karrito/internal/clock"
	"github.com/vytor/karrito/internal/db"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/repository"
)

const profilesTable = "user_profiles"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// profileRepository serializes writers with mu; readers share it.
type profileRepository struct {
	conn  DBProvider
	clock clock.Clock
	mu    sync.RWMutex

	// afterDeactivate runs inside SetActive between its two steps. Tests use
	// it to inject failures.
	afterDeactivate func(ctx context.Context, tx *sql.Tx) error
}

// NewProfileRepository creates a new ProfileRepository implementation.
// A nil clock means the system clock.
func NewProfileRepository(conn DBProvider, c clock.Clock) repository.ProfileRepository {
	if c == nil {
		c = clock.System{}
	}
	return &profileRepository{conn: conn, clock: c}
}

func (r *profileRepository) Create(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("creating profile: name=%s", profile.Name)

	if profile.Kind == "" {
		profile.Kind = models.KindOffline
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	err = tx(ctx, sqlDB, func(tx *sql.Tx) error {
		exists, err := existsByName(ctx, tx, profile.Name)
		if err != nil {
			return err
		}
		if exists {
			return errors.NewConstraintViolation("profile already exists: " + profile.Name)
		}

		query, args, err := sqlBuilder.Insert(profilesTable).
			Columns(profileColumns[1:]...).
			Values(
				profile.Name, profile.DisplayName,
				nullString(profile.MinecraftUsername), nullString(profile.MicrosoftAccountID),
				string(profile.Kind), nullString(profile.JavaPath), nullString(profile.JavaArgs),
				profile.MinMemoryMB, profile.MaxMemoryMB, nullString(profile.GameDirectory),
				profile.IsActive, now, now,
			).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		profile.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			log.Warn("create rejected by unique constraint: %v", err)
			return nil, errors.NewConstraintViolation("profile violates a uniqueness constraint: " + profile.Name)
		}
		if _, ok := errors.As(err); !ok {
			log.Error("failed to create profile: %v", err)
			err = errors.NewStorageError("create profile", err)
		}
		return nil, err
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	log.Info("profile created: name=%s id=%d", profile.Name, profile.ID)
	return &profile, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id int64) (*models.Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id}, "id", id)
}

func (r *profileRepository) FindByName(ctx context.Context, name string) (*models.Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"name": name}, "name", name)
}

func (r *profileRepository) FindActive(ctx context.Context) (*models.Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"is_active": true}, "is_active", true)
}

func (r *profileRepository) findOne(ctx context.Context, where squirrel.Sqlizer, field string, value any) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("finding profile: %s=%v", field, value)

	r.mu.RLock()
	defer r.mu.RUnlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}
	p, err := findProfile(ctx, sqlDB, where)
	if err != nil {
		log.Error("failed to find profile by %s: %v", field, err)
		return nil, errors.NewStorageError("find profile", err)
	}
	if p == nil {
		log.Debug("profile not found: %s=%v", field, value)
	}
	return p, nil
}

func findProfile(ctx context.Context, q queryer, where squirrel.Sqlizer) (*models.Profile, error) {
	query, args, err := sqlBuilder.Select(profileColumns...).
		From(profilesTable).
		Where(where).
		OrderBy("updated_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanProfile(q.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) FindAll(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing profiles")

	r.mu.RLock()
	defer r.mu.RUnlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Select(profileColumns...).
		From(profilesTable).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.NewStorageError("build profile list query", err)
	}

	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewStorageError("list profiles", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			log.Error("failed to scan profile row: %v", err)
			return nil, errors.NewStorageError("scan profile", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("list profiles", err)
	}

	log.Debug("found %d profiles", len(profiles))
	return profiles, nil
}

// Update writes every user-controlled column. Activity only changes through
// SetActive, so is_active is left alone.
func (r *profileRepository) Update(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating profile: id=%d", profile.ID)

	if profile.ID == 0 {
		return nil, errors.NewValidationError("id", "required for update")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Profile
	err = tx(ctx, sqlDB, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Update(profilesTable).
			SetMap(map[string]any{
				"name":                 profile.Name,
				"display_name":         profile.DisplayName,
				"minecraft_username":   nullString(profile.MinecraftUsername),
				"microsoft_account_id": nullString(profile.MicrosoftAccountID),
				"profile_type":         string(profile.Kind),
				"java_path":            nullString(profile.JavaPath),
				"java_args":            nullString(profile.JavaArgs),
				"min_memory_mb":        profile.MinMemoryMB,
				"max_memory_mb":        profile.MaxMemoryMB,
				"game_directory":       nullString(profile.GameDirectory),
				"updated_at":           r.clock.Now(),
			}).
			Where(squirrel.Eq{"id": profile.ID}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.NewNotFoundError("profile", profile.ID)
		}
		updated, err = findProfile(ctx, tx, squirrel.Eq{"id": profile.ID})
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, errors.NewConstraintViolation("profile already exists: " + profile.Name)
		}
		if _, ok := errors.As(err); !ok {
			log.Error("failed to update profile: %v", err)
			err = errors.NewStorageError("update profile", err)
		}
		return nil, err
	}

	log.Info("profile updated: id=%d name=%s", updated.ID, updated.Name)
	return updated, nil
}

func (r *profileRepository) SetActive(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("setting active profile: id=%d", id)

	r.mu.Lock()
	defer r.mu.Unlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return err
	}

	err = tx(ctx, sqlDB, func(tx *sql.Tx) error {
		return r.activate(ctx, tx, id)
	})
	if err != nil {
		if _, ok := errors.As(err); !ok {
			log.Error("failed to set active profile %d: %v", id, err)
			err = errors.NewStorageError("set active profile", err)
		}
		return err
	}

	log.Info("profile %d is now active", id)
	return nil
}

// activate is the two-step protocol: clear every other active flag, then set
// the target. It must run inside a transaction so a failure in step two
// restores step one.
func (r *profileRepository) activate(ctx context.Context, tx *sql.Tx, id int64) error {
	now := r.clock.Now()

	query, args, err := sqlBuilder.Update(profilesTable).
		Set("is_active", false).
		Set("updated_at", now).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.NotEq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if r.afterDeactivate != nil {
		if err := r.afterDeactivate(ctx, tx); err != nil {
			return err
		}
	}

	query, args, err = sqlBuilder.Update(profilesTable).
		Set("is_active", true).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFoundError("profile", id)
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile: id=%d", id)

	r.mu.Lock()
	defer r.mu.Unlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return false, err
	}

	deleted, err := deleteProfile(ctx, sqlDB, id)
	if err != nil {
		log.Error("failed to delete profile %d: %v", id, err)
		return false, errors.NewStorageError("delete profile", err)
	}
	if deleted {
		log.Info("profile %d deleted", id)
	}
	return deleted, nil
}

func (r *profileRepository) DeleteAndActivate(ctx context.Context, deleteID, promoteID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("deleting profile %d and promoting %d", deleteID, promoteID)

	if deleteID == promoteID {
		return false, errors.NewValidationError("promote_id", "must differ from the deleted profile")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return false, err
	}

	var deleted bool
	err = tx(ctx, sqlDB, func(tx *sql.Tx) error {
		target, err := findProfile(ctx, tx, squirrel.Eq{"id": deleteID})
		if err != nil || target == nil {
			return err
		}
		if err := r.activate(ctx, tx, promoteID); err != nil {
			return err
		}
		deleted, err = deleteProfile(ctx, tx, deleteID)
		return err
	})
	if err != nil {
		if _, ok := errors.As(err); !ok {
			log.Error("failed to delete profile %d: %v", deleteID, err)
			err = errors.NewStorageError("delete profile", err)
		}
		return false, err
	}
	if deleted {
		log.Info("profile %d deleted, profile %d promoted to active", deleteID, promoteID)
	}
	return deleted, nil
}

func deleteProfile(ctx context.Context, q queryer, id int64) (bool, error) {
	query, args, err := sqlBuilder.Delete(profilesTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *profileRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return false, err
	}
	exists, err := existsByName(ctx, sqlDB, name)
	if err != nil {
		return false, errors.NewStorageError("check profile name", err)
	}
	return exists, nil
}

func existsByName(ctx context.Context, q queryer, name string) (bool, error) {
	n, err := countWhere(ctx, q, squirrel.Eq{"name": name})
	return n > 0, err
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return 0, err
	}
	n, err := countWhere(ctx, sqlDB, nil)
	if err != nil {
		return 0, errors.NewStorageError("count profiles", err)
	}
	return n, nil
}

func countWhere(ctx context.Context, q queryer, where squirrel.Sqlizer) (int, error) {
	builder := sqlBuilder.Select("COUNT(*)").From(profilesTable)
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = q.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
