package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/vytor/karrito/internal/errors"
)

// ProfileKind is how a profile authenticates.
type ProfileKind string

const (
	KindOffline   ProfileKind = "offline"
	KindMicrosoft ProfileKind = "microsoft"
	KindMojang    ProfileKind = "mojang"
)

const (
	DefaultMinMemoryMB = 512
	DefaultMaxMemoryMB = 2048

	DefaultProfileName        = "default"
	DefaultProfileDisplayName = "Default Profile"
)

// ProfileSubdirs are created inside every profile's game directory.
var ProfileSubdirs = []string{"saves", "screenshots", "resourcepacks", "config"}

// ProfileConfigFiles are copied from source to target when duplicating.
var ProfileConfigFiles = []string{"options.txt", "servers.dat"}

// ParseProfileKind maps a stored value to a kind. Unknown values are offline.
func ParseProfileKind(s string) ProfileKind {
	switch ProfileKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindMicrosoft:
		return KindMicrosoft
	case KindMojang:
		return KindMojang
	default:
		return KindOffline
	}
}

// Valid reports whether k is one of the known kinds.
func (k ProfileKind) Valid() bool {
	switch k {
	case KindOffline, KindMicrosoft, KindMojang:
		return true
	}
	return false
}

// Online reports whether the kind is backed by an external account.
func (k ProfileKind) Online() bool {
	return k == KindMicrosoft || k == KindMojang
}

type Profile struct {
	ID                 int64       `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	DisplayName        string      `json:"display_name" yaml:"display_name"`
	MinecraftUsername  string      `json:"minecraft_username,omitempty" yaml:"minecraft_username,omitempty"`
	MicrosoftAccountID string      `json:"microsoft_account_id,omitempty" yaml:"microsoft_account_id,omitempty"`
	Kind               ProfileKind `json:"profile_type" yaml:"profile_type"`
	JavaPath           string      `json:"java_path,omitempty" yaml:"java_path,omitempty"`
	JavaArgs           string      `json:"java_args,omitempty" yaml:"java_args,omitempty"`
	MinMemoryMB        int         `json:"min_memory_mb" yaml:"min_memory_mb"`
	MaxMemoryMB        int         `json:"max_memory_mb" yaml:"max_memory_mb"`
	GameDirectory      string      `json:"game_directory" yaml:"game_directory"`
	IsActive           bool        `json:"is_active" yaml:"is_active"`
	CreatedAt          time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" yaml:"updated_at"`
}

// NewProfile returns an inactive profile with default memory bounds.
func NewProfile(name, displayName string, kind ProfileKind) Profile {
	if kind == "" {
		kind = KindOffline
	}
	return Profile{
		Name:        name,
		DisplayName: displayName,
		Kind:        kind,
		MinMemoryMB: DefaultMinMemoryMB,
		MaxMemoryMB: DefaultMaxMemoryMB,
	}
}

// Validate checks the fields a caller controls.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == ".." {
		return errors.NewValidationError("name", "must not contain path separators")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return errors.NewValidationError("display_name", "cannot be empty")
	}
	if !p.Kind.Valid() {
		return errors.NewValidationError("profile_type", "unknown profile type "+string(p.Kind))
	}
	if p.MinMemoryMB <= 0 {
		return errors.NewValidationError("min_memory_mb", "must be positive")
	}
	if p.MaxMemoryMB <= p.MinMemoryMB {
		return errors.NewValidationError("max_memory_mb", "must be greater than min_memory_mb")
	}
	return nil
}

// EffectiveGameDirectory returns GameDirectory, or <profilesRoot>/<name> when unset.
func (p Profile) EffectiveGameDirectory(profilesRoot string) string {
	if strings.TrimSpace(p.GameDirectory) != "" {
		return p.GameDirectory
	}
	return filepath.Join(profilesRoot, p.Name)
}

// HasMinecraftAccount reports whether a game username is linked.
func (p Profile) HasMinecraftAccount() bool {
	return strings.TrimSpace(p.MinecraftUsername) != ""
}

// Duplicate copies every user-controlled field except identity and activity.
func (p Profile) Duplicate(name, displayName string) Profile {
	dup := p
	dup.ID = 0
	dup.Name = name
	dup.DisplayName = displayName
	dup.GameDirectory = ""
	dup.IsActive = false
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	return dup
}
