package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSettings_Defaults(t *testing.T) {
	settings, err := ReadSettingsFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", settings.Addr())
	assert.Equal(t, "configs", settings.ConfigDir)
	assert.Equal(t, time.Second/60, settings.TickInterval())
	assert.Equal(t, 24*time.Hour, settings.SessionTTL)
	assert.Equal(t, time.Hour, settings.CleanupInterval)
	assert.False(t, settings.NgrokEnabled)

	level, err := settings.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestReadSettings_FromEnvironment(t *testing.T) {
	settings, err := ReadSettingsFrom(map[string]string{
		"HOST":          "0.0.0.0",
		"PORT":          "9090",
		"CONFIG_DIR":    "/etc/taxi",
		"TICK_RATE":     "30",
		"SESSION_TTL":   "90m",
		"LOG_LEVEL":     "DEBUG",
		"NGROK_ENABLED": "true",
		"NGROK_DOMAIN":  "taxi.ngrok.app",
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", settings.Addr())
	assert.Equal(t, "/etc/taxi", settings.ConfigDir)
	assert.Equal(t, 30, settings.TickRate)
	assert.Equal(t, 90*time.Minute, settings.SessionTTL)
	assert.True(t, settings.NgrokEnabled)
	assert.Equal(t, "taxi.ngrok.app", settings.NgrokDomain)

	level, _ := settings.Level()
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestReadSettings_ProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("TICK_RATE", "20")

	settings, err := ReadSettings()
	require.NoError(t, err)
	assert.Equal(t, 7070, settings.Port)
	assert.Equal(t, 50*time.Millisecond, settings.TickInterval())
}

func TestReadSettings_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"zero tick rate", "TICK_RATE", "0"},
		{"bad duration", "SESSION_TTL", "forever"},
		{"negative ttl", "SESSION_TTL", "-1h"},
		{"unknown level", "LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSettingsFrom(map[string]string{tt.key: tt.value})
			assert.Error(t, err)
		})
	}
}
