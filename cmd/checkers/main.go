// Package main runs a two-player checkers game in the terminal.
package main

import (
	"flag"
	"os"
	"time"

	"checkers/internal/cli"
	"checkers/internal/client/display"
	"checkers/internal/server/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	theme := flag.String("theme", string(display.ThemeOff), "Board theme (off, brown, green, gray)")
	debug := flag.Bool("debug", false, "Log service events to stderr")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	svc := service.New(nil, nil, service.DefaultLimits())
	defer svc.Shutdown(time.Second)

	view := cli.New(os.Stdin, os.Stdout)
	if t, err := display.ParseTheme(*theme); err == nil {
		view.SetTheme(t)
	} else {
		log.Warn().Err(err).Msg("falling back to plain board")
	}

	handler := cli.NewHandler(svc, view)
	view.ShowWelcome()
	handler.Run()
}
