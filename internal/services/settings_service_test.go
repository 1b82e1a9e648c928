package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/services"
	"github.com/vytor/karrito/internal/testutil/mocks"
)

func TestSettingsService_SetNormalizesBoolean(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSettingsRepository)
	svc := services.NewSettingsService(repo)

	repo.On("Get", ctx, "check_updates").Return(&models.Setting{Key: "check_updates", Value: "true", ValueType: models.SettingBoolean}, nil).Once()
	repo.On("SetValue", ctx, "check_updates", "false").Return(nil)
	repo.On("Get", ctx, "check_updates").Return(&models.Setting{Key: "check_updates", Value: "false", ValueType: models.SettingBoolean}, nil).Once()

	st, err := svc.Set(ctx, "check_updates", " F ")
	require.NoError(t, err)
	assert.Equal(t, "false", st.Value)
	repo.AssertExpectations(t)
}

func TestSettingsService_SetRejectsBadInteger(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSettingsRepository)
	svc := services.NewSettingsService(repo)

	repo.On("Get", ctx, "max_concurrent_downloads").Return(&models.Setting{Key: "max_concurrent_downloads", Value: "4", ValueType: models.SettingInteger}, nil)

	_, err := svc.Set(ctx, "max_concurrent_downloads", "four")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	repo.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettingsService_SetUnknownKey(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSettingsRepository)
	svc := services.NewSettingsService(repo)

	repo.On("Get", ctx, "nope").Return(nil, nil)

	_, err := svc.Set(ctx, "nope", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSettingsService_SetBackgroundThroughSetValidates(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSettingsRepository)
	svc := services.NewSettingsService(repo)

	repo.On("Get", ctx, models.BackgroundSettingKey).Return(&models.Setting{Key: models.BackgroundSettingKey, Value: "cosmic", ValueType: models.SettingString}, nil)

	_, err := svc.Set(ctx, models.BackgroundSettingKey, "neon")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSettingsService_Background(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setting *models.Setting
		want    models.Background
	}{
		{"stored", &models.Setting{Value: "matrix"}, models.BackgroundMatrix},
		{"missing row", nil, models.BackgroundCosmic},
		{"unknown value", &models.Setting{Value: "custom-css"}, models.BackgroundCosmic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockSettingsRepository)
			svc := services.NewSettingsService(repo)
			if tt.setting == nil {
				repo.On("Get", ctx, models.BackgroundSettingKey).Return(nil, nil)
			} else {
				repo.On("Get", ctx, models.BackgroundSettingKey).Return(tt.setting, nil)
			}

			got, err := svc.Background(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetBackground(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockSettingsRepository)
	svc := services.NewSettingsService(repo)

	repo.On("SetValue", ctx, models.BackgroundSettingKey, "ocean").Return(nil)

	require.NoError(t, svc.SetBackground(ctx, models.BackgroundOcean))

	err := svc.SetBackground(ctx, models.Background("plaid"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	repo.AssertNumberOfCalls(t, "SetValue", 1)
}
