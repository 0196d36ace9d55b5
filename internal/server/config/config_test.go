package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, 100, cfg.MaxGames)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHECKERS_API_PORT", "9999")
	t.Setenv("CHECKERS_DEV", "true")
	t.Setenv("CHECKERS_SESSION_TTL", "30m")
	t.Setenv("CHECKERS_STORAGE_PATH", "/tmp/checkers.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.APIPort)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "/tmp/checkers.db", cfg.StoragePath)
}

func TestLoadError(t *testing.T) {
	t.Setenv("CHECKERS_API_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.APIPort = 0 }},
		{"pid lock without path", func(c *Config) { c.PIDLock = true }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetupLoggingJSON(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	cfg.SetupLogging(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("game", "g1").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"game":"g1"`)
	assert.Contains(t, out, `"level":"warn"`)
}
