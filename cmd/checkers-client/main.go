// Package main implements an interactive client for the checkers server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"checkers/internal/client/commands"
	"checkers/internal/client/display"
	"checkers/internal/client/session"
	"checkers/internal/server/board"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API server base URL")
	theme := flag.String("theme", string(display.ThemeOff), "Board theme (off, brown, green, gray)")
	flag.Parse()

	s := session.New(*apiURL)
	if t, err := display.ParseTheme(*theme); err == nil {
		s.SetTheme(t)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("checkers"),
		HistoryFile:     ".checkers_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sCheckers Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		registry.Execute(line)
	}
}

func buildPrompt(s *session.Session) string {
	var parts []string
	if s.Username != "" {
		parts = append(parts, display.Magenta+s.Username+display.Reset)
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, display.White+id+display.Reset)
	}
	if s.PlayerColor != "" {
		parts = append(parts, display.ColorForTurn(s.PlayerColor))
	}

	prompt := "checkers"
	if len(parts) > 0 {
		prompt += display.Yellow + " [" + display.Reset + strings.Join(parts, display.Yellow+" - "+display.Reset) + display.Yellow + "]"
	}

	if g := s.CurrentGameState; g != nil {
		prompt += " - Turn:" + display.ColorForTurn(g.Turn)
		if g.TurnType == "continue" {
			prompt += "(" + g.ContinueFrom + ")"
		}
		if g.State != "ongoing" {
			prompt += " " + g.State
		}
	}
	if from, ok := s.Selection().Selected(); ok {
		prompt += " *" + board.SquareName(from)
	}
	return display.Prompt(prompt)
}
