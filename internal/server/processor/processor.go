// Package processor turns transport-neutral commands into service calls and
// API responses.
package processor

import (
	"errors"
	"fmt"
	"strings"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
	"checkers/internal/server/service"

	"github.com/rs/zerolog/log"
)

type Processor struct {
	svc *service.Service
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdJoinGame:
		return p.handleJoinGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetMoves:
		return p.handleGetMoves(cmd)
	case CmdGetPieces:
		return p.handleGetPieces(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if !p.svc.CanCreateGame() {
		return p.errorResponse("game limit reached, try again later", core.ErrResourceLimit)
	}

	initial := engine.NewGame()
	if pos := strings.TrimSpace(args.Position); pos != "" {
		parsed, err := board.Parse(pos)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidPosition)
		}
		initial = parsed
	}

	gameID := p.svc.GenerateGameID()
	red := core.NewPlayer(args.Red, core.ColorRed)
	black := core.NewPlayer(args.Black, core.ColorBlack)

	if err := p.svc.CreateGame(gameID, red, black, initial); err != nil {
		if errors.Is(err, service.ErrTooManyGames) {
			return p.errorResponse("game limit reached, try again later", core.ErrResourceLimit)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	return p.gameResponse(gameID)
}

// handleJoinGame binds the caller to a seat so only they can move that colour
func (p *Processor) handleJoinGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.JoinGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if cmd.UserID == "" {
		return p.errorResponse("joining a game requires authentication", core.ErrUnauthorized)
	}

	color, err := core.ParseColor(args.Color)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	if err := p.svc.ClaimGameSlot(cmd.GameID, color, cmd.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			return p.errorResponse("game not found", core.ErrGameNotFound)
		case errors.Is(err, game.ErrSlotTaken):
			return p.errorResponse(err.Error(), core.ErrSlotTaken)
		default:
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
	}

	log.Debug().Str("game", cmd.GameID).Str("user", cmd.UserID).Str("color", color.Name()).Msg("seat claimed")
	return p.gameResponse(cmd.GameID)
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	return p.gameResponse(cmd.GameID)
}

func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	from, to, err := board.ParseMove(args.Move)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}

	result, err := p.svc.ApplyMove(cmd.GameID, cmd.UserID, from, to)
	if err != nil {
		return p.moveError(err)
	}

	resp := p.gameResponse(cmd.GameID)
	if data, ok := resp.Data.(core.GameResponse); ok {
		data.LastMove = moveInfo(result)
		resp.Data = data
	}
	return resp
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if resp, ok := p.requireParticipant(cmd); !ok {
		return resp
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.gameResponse(cmd.GameID)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if resp, ok := p.requireParticipant(cmd); !ok {
		return resp
	}
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true}
}

func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	err := p.svc.ViewGame(cmd.GameID, func(g *game.Game) error {
		resp = core.BoardResponse{
			Position: g.CurrentPosition(),
			Board:    board.ToASCII(g.CurrentState()),
		}
		return nil
	})
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// handleGetMoves lists the destinations of one piece. During a capture chain
// only the continuing piece has destinations, and only its captures.
func (p *Processor) handleGetMoves(cmd Command) ProcessorResponse {
	square, _ := cmd.Args.(string)
	pos, err := board.ParseSquare(square)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	resp := core.MovesResponse{
		Square:   board.SquareName(pos),
		Captures: []string{},
		Moves:    []string{},
	}
	err = p.svc.ViewGame(cmd.GameID, func(g *game.Game) error {
		state := g.CurrentState()
		piece, ok := state.Board.At(pos).Piece()
		if !ok || state.GameOver {
			return nil
		}

		captures := engine.CaptureMoves(piece, state.Board)
		steps := engine.NonCaptureMoves(piece, state.Board)
		if state.TurnType == engine.TurnContinue {
			steps = nil
			if pos != state.LastMoved {
				captures = nil
			}
		}
		for _, to := range captures {
			resp.Captures = append(resp.Captures, board.SquareName(to))
		}
		for _, to := range steps {
			resp.Moves = append(resp.Moves, board.SquareName(to))
		}
		resp.Selectable = piece.Color == state.Turn && len(resp.Captures)+len(resp.Moves) > 0
		return nil
	})
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleGetPieces(cmd Command) ProcessorResponse {
	var resp core.PiecesResponse
	err := p.svc.ViewGame(cmd.GameID, func(g *game.Game) error {
		state := g.CurrentState()
		resp = core.PiecesResponse{
			Turn:     state.Turn.String(),
			TurnType: state.TurnType.String(),
			Pieces:   []string{},
		}
		if state.GameOver {
			return nil
		}
		for _, pos := range engine.SelectablePieces(state) {
			resp.Pieces = append(resp.Pieces, board.SquareName(pos))
		}
		return nil
	})
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

// requireParticipant rejects callers who hold no seat once any seat is claimed
func (p *Processor) requireParticipant(cmd Command) (ProcessorResponse, bool) {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound), false
	}
	red, black := g.GetSlotOwner(core.ColorRed), g.GetSlotOwner(core.ColorBlack)
	if red == "" && black == "" {
		return ProcessorResponse{}, true
	}
	if cmd.UserID != "" && (cmd.UserID == red || cmd.UserID == black) {
		return ProcessorResponse{}, true
	}
	return p.errorResponse("only seated players may do this", core.ErrUnauthorized), false
}

func (p *Processor) moveError(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, engine.ErrGameOver):
		return p.errorResponse("game is over", core.ErrGameOver)
	case errors.Is(err, service.ErrNotSeatOwner):
		return p.errorResponse("seat belongs to another player", core.ErrUnauthorized)
	case errors.Is(err, engine.ErrNotYourPiece):
		return p.errorResponse(err.Error(), core.ErrNotYourTurn)
	default:
		return p.errorResponse(err.Error(), core.ErrInvalidMove)
	}
}

func (p *Processor) gameResponse(gameID string) ProcessorResponse {
	var resp core.GameResponse
	err := p.svc.ViewGame(gameID, func(g *game.Game) error {
		resp = buildGameResponse(gameID, g)
		return nil
	})
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return ProcessorResponse{Success: true, Data: resp}
}

func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	state := g.CurrentState()
	resp := core.GameResponse{
		GameID:   gameID,
		Position: g.CurrentPosition(),
		Turn:     state.Turn.String(),
		TurnType: state.TurnType.String(),
		State:    g.State().String(),
		Moves:    g.Moves(),
		Players: core.PlayersResponse{
			Red:   copyPlayer(g.GetPlayer(core.ColorRed)),
			Black: copyPlayer(g.GetPlayer(core.ColorBlack)),
		},
		LastMove: moveInfo(g.LastResult()),
	}
	if state.TurnType == engine.TurnContinue {
		resp.ContinueFrom = board.SquareName(state.LastMoved)
	}
	return resp
}

// copyPlayer detaches the response from seats that may be claimed concurrently
func copyPlayer(pl *core.Player) *core.Player {
	if pl == nil {
		return nil
	}
	c := *pl
	return &c
}

func moveInfo(result *game.MoveResult) *core.MoveInfo {
	if result == nil {
		return nil
	}
	return &core.MoveInfo{
		Move:        result.Move,
		PlayerColor: result.PlayerColor.String(),
		Capture:     result.Capture,
		Promotion:   result.Promotion,
	}
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
