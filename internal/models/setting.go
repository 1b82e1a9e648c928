package models

import "time"

// Setting value types stored in launcher_settings.value_type.
const (
	SettingString  = "string"
	SettingBoolean = "boolean"
	SettingInteger = "integer"
)

// BackgroundSettingKey holds the selected launcher background.
const BackgroundSettingKey = "background_type"

type Setting struct {
	ID          int64     `json:"id" yaml:"id"`
	Key         string    `json:"key" yaml:"key"`
	Value       string    `json:"value" yaml:"value"`
	ValueType   string    `json:"value_type" yaml:"value_type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Background is a launcher background choice.
type Background string

const (
	BackgroundCosmic    Background = "cosmic"
	BackgroundCyberpunk Background = "cyberpunk"
	BackgroundMatrix    Background = "matrix"
	BackgroundOcean     Background = "ocean"
	BackgroundForest    Background = "forest"
	BackgroundGradient  Background = "gradient"
	BackgroundParticles Background = "particles"
)

// Backgrounds lists every accepted background in display order.
var Backgrounds = []Background{
	BackgroundCosmic, BackgroundCyberpunk, BackgroundMatrix, BackgroundOcean,
	BackgroundForest, BackgroundGradient, BackgroundParticles,
}

// Valid reports whether b is a known background.
func (b Background) Valid() bool {
	for _, known := range Backgrounds {
		if b == known {
			return true
		}
	}
	return false
}
