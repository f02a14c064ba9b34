package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 8*time.Hour, cfg.Window.Open)
	assert.Equal(t, 22*time.Hour, cfg.Window.Close)
	assert.Equal(t, time.Hour, cfg.Window.Width)
	assert.Len(t, cfg.Window.Starts(), 14)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 3, cfg.StatsRetries)
	assert.Error(t, cfg.RequireJWTSecret())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SLOT_OPEN", "09:00")
	t.Setenv("SLOT_CLOSE", "21:00")
	t.Setenv("SLOT_WIDTH", "90m")
	t.Setenv("TIMEZONE", "Europe/Paris")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STATS_RETRIES", "0")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"09:00", "10:30", "12:00", "13:30", "15:00", "16:30", "18:00", "19:30"}, cfg.Window.Starts())
	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 1, cfg.StatsRetries)
	assert.NoError(t, cfg.RequireJWTSecret())
}

func TestParseRejectsUnevenSlots(t *testing.T) {
	t.Setenv("SLOT_WIDTH", "50m")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot window")
}

func TestParseRejectsBadValues(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
