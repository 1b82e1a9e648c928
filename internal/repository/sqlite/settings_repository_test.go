package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/karrito/internal/clock"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/repository"
	"github.com/vytor/karrito/internal/repository/sqlite"
	"github.com/vytor/karrito/internal/testutil"
)

type SettingsRepositorySuite struct {
	suite.Suite
	clock *clock.Fixed
	repo  repository.SettingsRepository
}

func (s *SettingsRepositorySuite) SetupTest() {
	store := testutil.NewTestStore(s.T())
	s.clock = clock.NewFixed(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	s.repo = sqlite.NewSettingsRepository(store, s.clock)
}

func (s *SettingsRepositorySuite) TestSeededDefaults() {
	ctx := context.Background()

	all, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Assert().Len(all, 8)

	keys := make([]string, 0, len(all))
	for _, st := range all {
		keys = append(keys, st.Key)
	}
	s.Assert().IsIncreasing(keys)

	theme, err := s.repo.Get(ctx, "theme")
	s.Require().NoError(err)
	s.Require().NotNil(theme)
	s.Assert().Equal("dark", theme.Value)
	s.Assert().Equal(models.SettingString, theme.ValueType)

	bg, err := s.repo.Get(ctx, models.BackgroundSettingKey)
	s.Require().NoError(err)
	s.Require().NotNil(bg)
	s.Assert().Equal(string(models.BackgroundCosmic), bg.Value)

	javaPath, err := s.repo.Get(ctx, "default_java_path")
	s.Require().NoError(err)
	s.Require().NotNil(javaPath)
	s.Assert().Empty(javaPath.Value)
}

func (s *SettingsRepositorySuite) TestGet_Missing() {
	st, err := s.repo.Get(context.Background(), "nope")
	s.Assert().NoError(err)
	s.Assert().Nil(st)
}

func (s *SettingsRepositorySuite) TestSetValue() {
	ctx := context.Background()

	s.Require().NoError(s.repo.SetValue(ctx, "theme", "light"))

	st, err := s.repo.Get(ctx, "theme")
	s.Require().NoError(err)
	s.Assert().Equal("light", st.Value)
	s.Assert().True(st.UpdatedAt.Equal(s.clock.Now()))
}

func (s *SettingsRepositorySuite) TestSetValue_UnknownKey() {
	err := s.repo.SetValue(context.Background(), "nope", "x")
	s.Require().Error(err)
	s.Assert().True(errors.Is(err, errors.ErrNotFound))
}

func TestSettingsRepositorySuite(t *testing.T) {
	suite.Run(t, new(SettingsRepositorySuite))
}
