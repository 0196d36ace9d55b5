package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/client/selection"
	"checkers/internal/server/board"
	"checkers/internal/server/core"
)

var errNoGame = errors.New("no current game, use 'new' or 'join <gameId>'")

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new",
		Handler:     r.newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Set the current game ID",
		Usage:       "join <gameId>",
		Handler:     r.joinGameHandler,
	})

	r.Register(&Command{
		Name:        "sit",
		ShortName:   "t",
		Description: "Claim a seat in the current game (requires login)",
		Usage:       "sit <r|b>",
		Handler:     r.sitHandler,
	})

	r.Register(&Command{
		Name:        "click",
		ShortName:   "c",
		Description: "Select a piece, or move the selected piece to a highlighted square",
		Usage:       "click <square>",
		Handler:     r.clickHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <from><to>, e.g. move c3d4",
		Handler:     r.moveHandler,
	})

	r.Register(&Command{
		Name:        "pieces",
		ShortName:   "k",
		Description: "List pieces the side to move may select",
		Usage:       "pieces",
		Handler:     r.piecesHandler,
	})

	r.Register(&Command{
		Name:        "targets",
		ShortName:   "g",
		Description: "List destinations of a piece",
		Usage:       "targets <square>",
		Handler:     r.targetsHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     r.undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     r.showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     r.gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     r.deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     r.pollHandler,
	})
}

func currentGame(s Session) (string, error) {
	id := s.GetCurrentGame()
	if id == "" {
		return "", errNoGame
	}
	return id, nil
}

// ask prompts on the registry output and returns the trimmed answer, or def
// when the answer is empty
func (r *Registry) ask(scanner *bufio.Scanner, label, def string) string {
	r.printf("%s%s [%s]: %s", display.Yellow, label, def, display.Reset)
	if !scanner.Scan() {
		return ""
	}
	answer := strings.TrimSpace(scanner.Text())
	if answer == "" || answer == def {
		return ""
	}
	return answer
}

func (r *Registry) newGameHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(r.in)
	c := s.GetClient()

	r.printf("\n%sCreating new game...%s\n", display.Cyan, display.Reset)

	req := &api.CreateGameRequest{
		Red:      api.PlayerConfig{Name: r.ask(scanner, "Red player name", "none")},
		Black:    api.PlayerConfig{Name: r.ask(scanner, "Black player name", "none")},
		Position: r.ask(scanner, "Starting position", "default"),
	}

	resp, err := c.CreateGame(req)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetGameState(resp)

	r.printf("%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	r.printf("%sCurrent game set to: %s%s\n", display.Cyan, resp.GameID, display.Reset)
	return nil
}

func (r *Registry) joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	s.SetGameState(resp)
	if err := s.Advance(resp); err != nil {
		return err
	}

	r.printf("%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	r.printf("Turn: %s | State: %s | Moves: %d\n", display.ColorForTurn(resp.Turn), resp.State, len(resp.Moves))
	return nil
}

func (r *Registry) sitHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: sit <r|b>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	if s.GetAuthToken() == "" {
		return fmt.Errorf("login required to claim a seat")
	}
	color, err := core.ParseColor(args[0])
	if err != nil {
		return err
	}

	resp, err := s.GetClient().JoinGame(gameID, color.String())
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	s.SetPlayerColor(color.String())

	r.printf("%sSeated as %s%s\n", display.Green, display.ColorForTurn(color.String()), display.Reset)
	return nil
}

// applyMove submits a move and moves the selection machine past it
func (r *Registry) applyMove(s Session, gameID, move string) error {
	resp, err := s.GetClient().MakeMove(gameID, move)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	if err := s.Advance(resp); err != nil {
		return err
	}

	r.printf("%sMove accepted%s", display.Green, display.Reset)
	if resp.LastMove != nil {
		if resp.LastMove.Capture {
			r.printf(" %s(capture)%s", display.Magenta, display.Reset)
		}
		if resp.LastMove.Promotion {
			r.printf(" %s(crowned)%s", display.Yellow, display.Reset)
		}
	}
	r.printf("\n")

	switch {
	case resp.State != core.StateOngoing.String():
		r.printf("%sGame over: %s%s\n", display.Cyan, resp.State, display.Reset)
	case resp.TurnType == "continue":
		r.printf("%sCapture again with %s%s\n", display.Yellow, resp.ContinueFrom, display.Reset)
	}
	return nil
}

func (r *Registry) moveHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <from><to>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	if _, _, err := board.ParseMove(args[0]); err != nil {
		return err
	}
	return r.applyMove(s, gameID, strings.ToLower(args[0]))
}

func (r *Registry) clickHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: click <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	pos, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	m := s.Selection()
	mv, moved, err := m.Click(pos)
	if err != nil {
		if errors.Is(err, selection.ErrNotSelectable) || errors.Is(err, selection.ErrLocked) {
			r.printf("%s%s: %s%s\n", display.Yellow, board.SquareName(pos), err, display.Reset)
			return nil
		}
		return err
	}
	if !moved {
		r.printf("Selected %s%s%s, targets: %s\n",
			display.Yellow, board.SquareName(pos), display.Reset, squareList(m))
		return nil
	}
	return r.applyMove(s, gameID, board.FormatMove(mv.From, mv.To))
}

func squareList(m *selection.Machine) string {
	names := make([]string, 0, len(m.Targets()))
	for _, t := range m.Targets() {
		names = append(names, board.SquareName(t))
	}
	return strings.Join(names, " ")
}

func (r *Registry) piecesHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().GetPieces(gameID)
	if err != nil {
		return err
	}

	r.printf("%s to move (%s): %s\n", display.ColorForTurn(resp.Turn), resp.TurnType, strings.Join(resp.Pieces, " "))
	return nil
}

func (r *Registry) targetsHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: targets <square>")
	}
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().GetMoves(gameID, args[0])
	if err != nil {
		return err
	}

	r.printf("%s selectable=%t captures=[%s] moves=[%s]\n",
		resp.Square, resp.Selectable, strings.Join(resp.Captures, " "), strings.Join(resp.Moves, " "))
	return nil
}

func (r *Registry) undoHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		if count, err = strconv.Atoi(args[0]); err != nil || count < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.GetClient().UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	s.SetGameState(resp)
	if err := s.Advance(resp); err != nil {
		return err
	}

	r.printf("%sUndid %d move(s)%s\n", display.Green, count, display.Reset)
	return nil
}

func (r *Registry) showBoardHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	c := s.GetClient()

	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}
	b, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(game)

	hl := display.NoHighlight
	if from, ok := s.Selection().Selected(); ok {
		hl = display.Highlight{Selected: from, Targets: s.Selection().Targets()}
	}

	r.printf("\n")
	display.RenderBoard(r.out, b.Board, hl, s.GetTheme())

	r.printf("\nPosition: %s\n", game.Position)
	r.printf("Turn: %s (%s) | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.TurnType, game.State, len(game.Moves))
	if len(game.Moves) > 0 {
		r.printf("\nHistory: %s\n", display.MoveHistory(game.Moves))
	}
	if game.LastMove != nil {
		r.printf("Last move: %s by %s\n", game.LastMove.Move, display.ColorForTurn(game.LastMove.PlayerColor))
	}
	return nil
}

func (r *Registry) gameStateHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	resp, err := s.GetClient().GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	r.printf("%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(r.out, resp)
	return nil
}

func (r *Registry) deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.GetClient().DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
		s.SetLastMoveCount(0)
	}

	r.printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func (r *Registry) pollHandler(s Session, args []string) error {
	gameID, err := currentGame(s)
	if err != nil {
		return err
	}
	moveCount := s.GetLastMoveCount()

	r.printf("%sLong-polling for updates (move count: %d)...%s\n", display.Cyan, moveCount, display.Reset)

	resp, err := s.GetClient().GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}
	s.SetGameState(resp)

	if len(resp.Moves) == moveCount {
		r.printf("%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
		return nil
	}
	if err := s.Advance(resp); err != nil {
		return err
	}
	r.printf("%sGame updated%s\n", display.Green, display.Reset)
	if resp.LastMove != nil {
		r.printf("Last move: %s\n", resp.LastMove.Move)
	}
	return nil
}
