package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/repository"
)

// SettingsService handles typed access to launcher settings
type SettingsService interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	Set(ctx context.Context, key, value string) (*models.Setting, error)
	Background(ctx context.Context) (models.Background, error)
	SetBackground(ctx context.Context, background models.Background) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	st, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return nil, errors.WithOp("GetSetting", err)
	}
	if st == nil {
		return nil, errors.WithOp("GetSetting", errors.NewNotFoundError("setting", key))
	}
	return st, nil
}

func (s *settingsService) List(ctx context.Context) ([]models.Setting, error) {
	settings, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, errors.WithOp("ListSettings", err)
	}
	return settings, nil
}

// Set validates value against the row's value_type and stores its
// normalized form.
func (s *settingsService) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	log := logger.FromContext(ctx).WithPrefix("settings")
	log.Debug("setting %s", key)

	current, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	normalized, err := normalizeSetting(current.ValueType, value)
	if err != nil {
		return nil, errors.WithOp("SetSetting", err)
	}
	if key == models.BackgroundSettingKey && !models.Background(normalized).Valid() {
		return nil, errors.WithOp("SetSetting", errors.NewValidationError(key, "unknown background "+normalized))
	}

	if err := s.settingsRepo.SetValue(ctx, key, normalized); err != nil {
		log.Error("failed to set %s: %v", key, err)
		return nil, errors.WithOp("SetSetting", err)
	}
	return s.Get(ctx, key)
}

func normalizeSetting(valueType, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch valueType {
	case models.SettingBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", errors.NewValidationError("value", "expected a boolean")
		}
		return strconv.FormatBool(b), nil
	case models.SettingInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", errors.NewValidationError("value", "expected an integer")
		}
		return strconv.Itoa(n), nil
	default:
		return value, nil
	}
}

// Background returns the stored background, falling back to cosmic when the
// row is missing or holds an unknown value.
func (s *settingsService) Background(ctx context.Context) (models.Background, error) {
	st, err := s.settingsRepo.Get(ctx, models.BackgroundSettingKey)
	if err != nil {
		return "", errors.WithOp("Background", err)
	}
	if st == nil {
		return models.BackgroundCosmic, nil
	}
	b := models.Background(st.Value)
	if !b.Valid() {
		logger.FromContext(ctx).WithPrefix("settings").Warn("unknown background %q, using %s", st.Value, models.BackgroundCosmic)
		return models.BackgroundCosmic, nil
	}
	return b, nil
}

func (s *settingsService) SetBackground(ctx context.Context, background models.Background) error {
	if !background.Valid() {
		return errors.WithOp("SetBackground", errors.NewValidationError("background", "unknown background "+string(background)))
	}
	if err := s.settingsRepo.SetValue(ctx, models.BackgroundSettingKey, string(background)); err != nil {
		return errors.WithOp("SetBackground", err)
	}
	return nil
}
