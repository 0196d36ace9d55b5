// Package main runs the checkers API server: game sessions over REST with
// long-polling, optional SQLite persistence and JWT accounts.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"checkers/cmd/checkers-server/cli"
	"checkers/internal/server/config"
	"checkers/internal/server/http"
	"checkers/internal/server/processor"
	"checkers/internal/server/service"
	"checkers/internal/server/storage"

	"github.com/rs/zerolog/log"
)

const devSecret = "dev-secret-minimum-32-characters-long"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatal().Err(err).Msg("db command failed")
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// Flags override the environment
	flag.StringVar(&cfg.APIHost, "api-host", cfg.APIHost, "API server host")
	flag.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "API server port")
	flag.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "Development mode (relaxed rate limits, fixed JWT secret)")
	flag.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Path to SQLite database file (disables persistence if empty)")
	flag.StringVar(&cfg.PIDPath, "pid", cfg.PIDPath, "Optional path to write PID file")
	flag.BoolVar(&cfg.PIDLock, "pid-lock", cfg.PIDLock, "Lock PID file to allow only one instance (requires -pid)")
	flag.IntVar(&cfg.MaxGames, "max-games", cfg.MaxGames, "Maximum concurrent games")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (console, json)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging(os.Stderr)

	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			log.Fatal().Err(err).Msg("manage PID file")
		}
		defer cleanup()
		log.Info().Str("path", cfg.PIDPath).Bool("lock", cfg.PIDLock).Msg("PID file created")
	}

	var store *storage.Store
	if cfg.StoragePath != "" {
		store, err = storage.NewStore(cfg.StoragePath, cfg.DevMode)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.StoragePath).Msg("open storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("initialize schema")
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("storage did not close cleanly")
			}
		}()
		log.Info().Str("path", cfg.StoragePath).Msg("persistent storage enabled")
	} else {
		log.Info().Msg("persistent storage disabled, accounts unavailable")
	}

	jwtSecret, err := secret(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("generate JWT secret")
	}

	svc := service.New(store, jwtSecret, service.Limits{
		MaxGames:    cfg.MaxGames,
		MaxUsers:    cfg.MaxUsers,
		SessionTTL:  cfg.SessionTTL,
		WaitTimeout: service.WaitTimeout,
	})

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go svc.RunCleanupJob(cleanupCtx, cfg.CleanupInterval)

	proc := processor.New(svc)

	rateLimit := cfg.RateLimit
	if cfg.DevMode {
		rateLimit *= 2
	}
	app := http.NewFiberApp(proc, svc, http.Options{
		DevMode:   cfg.DevMode,
		RateLimit: rateLimit,
		AccessLog: cfg.AccessLog,
	})

	addr := cfg.Addr()
	go func() {
		log.Info().
			Str("addr", addr).
			Int("rate_limit", rateLimit).
			Bool("dev", cfg.DevMode).
			Bool("storage", store != nil).
			Msg("checkers API server listening")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Release long-polls first so the listener can drain
	if err := svc.Shutdown(cfg.ShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown")
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shut down")
	}
	cleanupCancel()

	log.Info().Msg("server exited")
}

// secret picks the JWT signing key: configured, fixed in dev mode, or random
// per process so tokens die with the server.
func secret(cfg config.Config) ([]byte, error) {
	switch {
	case cfg.JWTSecret != "":
		return []byte(cfg.JWTSecret), nil
	case cfg.DevMode:
		log.Warn().Msg("using fixed JWT secret (dev mode)")
		return []byte(devSecret), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	log.Info().Msg("JWT secret generated, sessions valid until restart")
	return []byte(hex.EncodeToString(buf)), nil
}
