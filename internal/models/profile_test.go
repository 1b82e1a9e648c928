package models_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/models"
)

func TestNewProfile_Defaults(t *testing.T) {
	p := models.NewProfile("alice", "Alice", "")

	assert.Equal(t, models.KindOffline, p.Kind)
	assert.Equal(t, 512, p.MinMemoryMB)
	assert.Equal(t, 2048, p.MaxMemoryMB)
	assert.False(t, p.IsActive)
	assert.NoError(t, p.Validate())
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Profile)
		field  string
	}{
		{"empty name", func(p *models.Profile) { p.Name = " " }, "name"},
		{"path in name", func(p *models.Profile) { p.Name = "../etc" }, "name"},
		{"empty display name", func(p *models.Profile) { p.DisplayName = "" }, "display_name"},
		{"unknown kind", func(p *models.Profile) { p.Kind = "steam" }, "profile_type"},
		{"zero min memory", func(p *models.Profile) { p.MinMemoryMB = 0 }, "min_memory_mb"},
		{"negative min memory", func(p *models.Profile) { p.MinMemoryMB = -5 }, "min_memory_mb"},
		{"max equals min", func(p *models.Profile) { p.MaxMemoryMB = p.MinMemoryMB }, "max_memory_mb"},
		{"max below min", func(p *models.Profile) { p.MaxMemoryMB = 256 }, "max_memory_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.NewProfile("alice", "Alice", models.KindOffline)
			tt.mutate(&p)

			err := p.Validate()
			assert.True(t, errors.Is(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParseProfileKind(t *testing.T) {
	assert.Equal(t, models.KindMicrosoft, models.ParseProfileKind("microsoft"))
	assert.Equal(t, models.KindMojang, models.ParseProfileKind(" MOJANG "))
	assert.Equal(t, models.KindOffline, models.ParseProfileKind("offline"))
	assert.Equal(t, models.KindOffline, models.ParseProfileKind("something-else"))
	assert.True(t, models.KindMicrosoft.Online())
	assert.False(t, models.KindOffline.Online())
}

func TestEffectiveGameDirectory(t *testing.T) {
	p := models.NewProfile("alice", "Alice", models.KindOffline)
	assert.Equal(t, filepath.Join("/data/profiles", "alice"), p.EffectiveGameDirectory("/data/profiles"))

	p.GameDirectory = "/games/alice"
	assert.Equal(t, "/games/alice", p.EffectiveGameDirectory("/data/profiles"))
}

func TestDuplicate_DropsIdentityAndActivity(t *testing.T) {
	src := models.NewProfile("alice", "Alice", models.KindMicrosoft)
	src.ID = 4
	src.IsActive = true
	src.JavaArgs = "-XX:+UseG1GC"
	src.MinecraftUsername = "alice_mc"
	src.GameDirectory = "/games/alice"
	src.CreatedAt = time.Now()

	dup := src.Duplicate("alice2", "Alice Two")

	assert.Zero(t, dup.ID)
	assert.False(t, dup.IsActive)
	assert.Empty(t, dup.GameDirectory)
	assert.True(t, dup.CreatedAt.IsZero())
	assert.Equal(t, "alice2", dup.Name)
	assert.Equal(t, "Alice Two", dup.DisplayName)
	assert.Equal(t, src.Kind, dup.Kind)
	assert.Equal(t, src.JavaArgs, dup.JavaArgs)
	assert.Equal(t, src.MinecraftUsername, dup.MinecraftUsername)
}

func TestBackground_Valid(t *testing.T) {
	assert.True(t, models.BackgroundOcean.Valid())
	assert.False(t, models.Background("plaid").Valid())
}
