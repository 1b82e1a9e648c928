package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/karrito/internal/clock"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/repository"
)

const settingsTable = "launcher_settings"

var settingColumns = []string{"id", "key", "value", "value_type", "description", "created_at", "updated_at"}

type settingsRepository struct {
	conn  DBProvider
	clock clock.Clock
}

// NewSettingsRepository creates a new SettingsRepository implementation.
func NewSettingsRepository(conn DBProvider, c clock.Clock) repository.SettingsRepository {
	if c == nil {
		c = clock.System{}
	}
	return &settingsRepository{conn: conn, clock: c}
}

func scanSetting(s rowScanner) (models.Setting, error) {
	var (
		st                 models.Setting
		value, description sql.NullString
		created, updated   sql.NullTime
	)
	if err := s.Scan(&st.ID, &st.Key, &value, &st.ValueType, &description, &created, &updated); err != nil {
		return models.Setting{}, err
	}
	st.Value = value.String
	st.Description = description.String
	if created.Valid {
		st.CreatedAt = created.Time.UTC()
	}
	if updated.Valid {
		st.UpdatedAt = updated.Time.UTC()
	}
	return st, nil
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("getting setting: key=%s", key)

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Select(settingColumns...).
		From(settingsTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, errors.NewStorageError("build setting query", err)
	}

	st, err := scanSetting(sqlDB.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get setting %s: %v", key, err)
		return nil, errors.NewStorageError("get setting", err)
	}
	return &st, nil
}

func (r *settingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Select(settingColumns...).
		From(settingsTable).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, errors.NewStorageError("build settings query", err)
	}

	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list settings: %v", err)
		return nil, errors.NewStorageError("list settings", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		st, err := scanSetting(rows)
		if err != nil {
			return nil, errors.NewStorageError("scan setting", err)
		}
		settings = append(settings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("list settings", err)
	}
	return settings, nil
}

// SetValue overwrites an existing setting. Unknown keys are NotFound.
func (r *settingsRepository) SetValue(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("setting %s=%s", key, value)

	sqlDB, err := r.conn.Handle(ctx)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.Update(settingsTable).
		Set("value", value).
		Set("updated_at", r.clock.Now()).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return errors.NewStorageError("build setting update", err)
	}

	res, err := sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update setting %s: %v", key, err)
		return errors.NewStorageError("update setting", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewStorageError("update setting", err)
	}
	if n == 0 {
		return errors.NewNotFoundError("setting", key)
	}
	log.Info("setting updated: %s", key)
	return nil
}
