// Package config loads server settings from CHECKERS_* environment variables.
// Command-line flags in main override whatever is loaded here.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	APIHost     string `env:"CHECKERS_API_HOST" envDefault:"localhost"`
	APIPort     int    `env:"CHECKERS_API_PORT" envDefault:"8080"`
	DevMode     bool   `env:"CHECKERS_DEV" envDefault:"false"`
	StoragePath string `env:"CHECKERS_STORAGE_PATH"`
	PIDPath     string `env:"CHECKERS_PID"`
	PIDLock     bool   `env:"CHECKERS_PID_LOCK" envDefault:"false"`

	// JWTSecret is generated at startup when empty, invalidating tokens on restart
	JWTSecret string `env:"CHECKERS_JWT_SECRET"`

	MaxGames        int           `env:"CHECKERS_MAX_GAMES" envDefault:"100"`
	MaxUsers        int           `env:"CHECKERS_MAX_USERS" envDefault:"100"`
	RateLimit       int           `env:"CHECKERS_RATE_LIMIT" envDefault:"10"`
	SessionTTL      time.Duration `env:"CHECKERS_SESSION_TTL" envDefault:"168h"`
	CleanupInterval time.Duration `env:"CHECKERS_CLEANUP_INTERVAL" envDefault:"1h"`
	ShutdownTimeout time.Duration `env:"CHECKERS_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"CHECKERS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CHECKERS_LOG_FORMAT" envDefault:"console"` // console or json
	AccessLog bool   `env:"CHECKERS_ACCESS_LOG" envDefault:"true"`
}

// Load parses the environment into a Config
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid api port %d", c.APIPort)
	}
	if c.PIDLock && c.PIDPath == "" {
		return fmt.Errorf("pid lock requires a pid path")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// SetupLogging installs the global zerolog logger writing to w
func (c Config) SetupLogging(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.DevMode && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.LogFormat == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}
