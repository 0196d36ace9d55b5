// Package cli is the terminal front end of the local two-player game: a line
// reader, a board view and the command loop driving an in-process service.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"checkers/internal/client/display"
	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdSelect
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdPieces
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type CLI struct {
	input   *bufio.Scanner
	output  io.Writer
	theme   display.Theme
	verbose bool
}

func New(input io.Reader, output io.Writer) *CLI {
	return &CLI{
		input:  bufio.NewScanner(input),
		output: output,
		theme:  display.ThemeOff,
	}
}

// GetCommand blocks for one input line. End of input reads as quit.
func (c *CLI) GetCommand() (*Command, error) {
	if !c.input.Scan() {
		if err := c.input.Err(); err != nil {
			return nil, err
		}
		return &Command{Type: CmdQuit}, nil
	}

	line := strings.TrimSpace(c.input.Text())
	if line == "" {
		return &Command{Type: CmdNone}, nil
	}
	return parseCommand(line), nil
}

func parseCommand(line string) *Command {
	parts := strings.Fields(line)
	args := parts[1:]

	switch strings.ToLower(parts[0]) {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: strings.TrimSpace(strings.TrimPrefix(line, parts[0]))}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "pieces":
		return &Command{Type: CmdPieces}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	}

	// Two characters name a square to click, four a full move
	switch len(parts[0]) {
	case 2:
		return &Command{Type: CmdSelect, Args: parts[:1]}
	default:
		return &Command{Type: CmdMove, Args: parts[:1]}
	}
}

func (c *CLI) SetTheme(theme display.Theme) {
	c.theme = theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	fmt.Fprint(c.output, prompt)
}

func (c *CLI) DisplayBoard(state engine.GameState, hl display.Highlight) {
	fmt.Fprintln(c.output)
	display.RenderBoard(c.output, board.ToASCII(state), hl, c.theme)
	fmt.Fprintln(c.output)
}

func (c *CLI) ShowHelp() {
	c.ShowMessage(`Commands:
  new                - Start a new game from the opening position
  resume <position>  - Start from a position string
  <square>           - Select a piece, or move the selected piece there (e.g. c3, then d4)
  <from><to>         - Make a move directly (e.g. c3d4)
  pieces             - List pieces the side to move may select
  undo [count]       - Undo last move(s), default 1; each jump counts
  color <theme>      - Set board color theme (off|brown|green|gray)
  verbose            - Toggle detailed move information
  history            - Show move history and positions
  quit/exit          - Exit the program
  help/?             - Show this help message`)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Checkers!")
	c.ShowMessage("Red moves first, toward the top of the board. Captures continue while the jumping piece can jump again.")
	c.ShowMessage("Commands: new, resume <position>, <square>, <move>, undo, pieces, history, help/?, quit")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("Starting position: %s", g.InitialPosition()))

	for i, move := range g.Moves() {
		c.ShowMessage(fmt.Sprintf("%3d. %s", i+1, move))
	}
	c.ShowMessage(fmt.Sprintf("Current position: %s", g.CurrentPosition()))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State()))
}

func (c *CLI) ShowMove(result *game.MoveResult) {
	side := "Red"
	if result.PlayerColor == core.ColorBlack {
		side = "Black"
	}
	if !c.verbose {
		c.ShowMessage(fmt.Sprintf("%s: %s", side, result.Move))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s: %s (capture=%t, crowned=%t)", side, result.Move, result.Capture, result.Promotion))
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", state))
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}
