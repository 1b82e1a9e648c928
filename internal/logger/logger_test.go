package logger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/karrito/internal/logger"
)

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("profile_repo").
		WithFields(map[string]any{"zeta": 2, "alpha": 1}).
		WithError(errors.New("boom"))

	log.Info("created")

	out := buf.String()
	assert.Contains(t, out, "[profile_repo]")
	assert.Contains(t, out, "created alpha=1 error=boom zeta=2")
}

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		in    string
		level logger.Level
		ok    bool
	}{
		{"debug", logger.DEBUG, true},
		{"INFO", logger.INFO, true},
		{"warning", logger.WARN, true},
		{"ERROR", logger.ERROR, true},
		{"verbose", logger.INFO, false},
		{"", logger.INFO, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, ok := logger.LookupLevel(tt.in)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))

	custom := logger.Discard()
	ctx := logger.NewContext(context.Background(), custom)
	assert.Same(t, custom, logger.FromContext(ctx))
}

func TestLogger_CallerAndColors(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(true))

	log.Error("disk full")

	out := buf.String()
	assert.Contains(t, out, "[logger_test.go:")
	assert.Contains(t, out, "\033[31mERROR\033[0m")
	assert.Contains(t, out, "disk full\n")
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", logger.WARN.String())
	assert.Equal(t, "UNKNOWN", logger.Level(42).String())
}
