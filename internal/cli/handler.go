package cli

import (
	"errors"
	"fmt"
	"strconv"

	"checkers/internal/client/display"
	"checkers/internal/client/selection"
	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
	"checkers/internal/server/service"
)

// Handler runs one local game at a time on an in-process service. Both
// sides play from the same keyboard.
type Handler struct {
	svc    *service.Service
	view   *CLI
	gameID string
	sel    *selection.Machine
}

func NewHandler(svc *service.Service, view *CLI) *Handler {
	h := &Handler{svc: svc, view: view}
	h.sel = selection.New(selection.StateSource(h.currentState))
	return h
}

// Run reads and executes commands until quit or end of input
func (h *Handler) Run() {
	for {
		h.view.ShowPrompt(h.prompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

func (h *Handler) currentState() engine.GameState {
	var state engine.GameState
	_ = h.svc.ViewGame(h.gameID, func(g *game.Game) error {
		state = g.CurrentState()
		return nil
	})
	return state
}

func (h *Handler) prompt() string {
	if h.gameID == "" {
		return "> "
	}
	state := h.currentState()
	if state.GameOver {
		return "[over]> "
	}

	label := state.Turn.String()
	if from, ok := h.sel.Selected(); ok {
		label += " " + board.SquareName(from)
		if h.sel.Locked() {
			label += "!"
		}
	}
	return fmt.Sprintf("[%s]> ", label)
}

func (h *Handler) highlight() display.Highlight {
	if from, ok := h.sel.Selected(); ok {
		return display.Highlight{Selected: from, Targets: h.sel.Targets()}
	}
	return display.NoHighlight
}

func (h *Handler) showBoard() {
	h.view.DisplayBoard(h.currentState(), h.highlight())
}

// ProcessCommand executes one command and reports whether to keep going
func (h *Handler) ProcessCommand(cmd *Command) bool {
	switch cmd.Type {
	case CmdQuit:
		return false

	case CmdNone:

	case CmdNew:
		h.startGame(engine.NewGame())

	case CmdResume:
		if cmd.Raw == "" {
			h.view.ShowMessage("Usage: resume <position>")
			return true
		}
		state, err := board.Parse(cmd.Raw)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.startGame(state)

	case CmdMove:
		if !h.requireGame() {
			return true
		}
		from, to, err := board.ParseMove(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.play(from, to)

	case CmdSelect:
		if !h.requireGame() {
			return true
		}
		h.click(cmd.Args[0])

	case CmdUndo:
		if !h.requireGame() {
			return true
		}
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}
		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		state := h.currentState()
		if err := h.sel.Advance(state.TurnType, state.LastMoved); err != nil {
			h.view.ShowError(err)
		}
		h.view.ShowMessage(fmt.Sprintf("%d move(s) undone", count))
		h.showBoard()

	case CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme, err := display.ParseTheme(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.SetTheme(theme)
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.showBoard()
		}

	case CmdVerbose:
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", h.view.ToggleVerbose()))

	case CmdHistory:
		if !h.requireGame() {
			return true
		}
		_ = h.svc.ViewGame(h.gameID, func(g *game.Game) error {
			h.view.ShowGameHistory(g)
			return nil
		})

	case CmdPieces:
		if !h.requireGame() {
			return true
		}
		state := h.currentState()
		names := ""
		for _, pos := range engine.SelectablePieces(state) {
			names += " " + board.SquareName(pos)
		}
		h.view.ShowMessage(fmt.Sprintf("Selectable (%s):%s", state.Turn, names))

	case CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *Handler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <position>'.")
		return false
	}
	return true
}

func (h *Handler) startGame(state engine.GameState) {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.sel.Reset()

	id := h.svc.GenerateGameID()
	red := core.NewPlayer(core.PlayerConfig{Name: "Red"}, core.ColorRed)
	black := core.NewPlayer(core.PlayerConfig{Name: "Black"}, core.ColorBlack)
	if err := h.svc.CreateGame(id, red, black, state); err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		h.gameID = ""
		return
	}
	h.gameID = id

	h.view.ShowMessage("Game started.")
	h.showBoard()
	h.announceIfOver()
}

func (h *Handler) click(square string) {
	pos, err := board.ParseSquare(square)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	mv, moved, err := h.sel.Click(pos)
	switch {
	case errors.Is(err, selection.ErrNotSelectable):
		h.view.ShowMessage(fmt.Sprintf("%s cannot be selected", board.SquareName(pos)))
	case err != nil:
		h.view.ShowError(err)
	case moved:
		h.play(mv.From, mv.To)
	default:
		h.showBoard()
	}
}

func (h *Handler) play(from, to engine.Position) {
	result, err := h.svc.ApplyMove(h.gameID, "", from, to)
	if err != nil {
		h.view.ShowError(fmt.Errorf("invalid move: %w", err))
		return
	}
	h.view.ShowMove(result)

	state := h.currentState()
	if err := h.sel.Advance(state.TurnType, state.LastMoved); err != nil {
		h.view.ShowError(err)
	}
	if state.TurnType == engine.TurnContinue && !state.GameOver {
		h.view.ShowMessage(fmt.Sprintf("Capture again with %s", board.SquareName(state.LastMoved)))
	}
	h.showBoard()
	h.announceIfOver()
}

func (h *Handler) announceIfOver() {
	var state core.State
	_ = h.svc.ViewGame(h.gameID, func(g *game.Game) error {
		state = g.State()
		return nil
	})
	if state.IsOver() {
		h.view.ShowGameOver(state)
	}
}
