package processor

import (
	"checkers/internal/server/core"
)

type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdJoinGame
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdGetMoves
	CmdGetPieces
)

// Command is the single input shape for every processor operation
type Command struct {
	Type   CommandType
	UserID string // authenticated caller, empty for anonymous
	GameID string
	Args   any
}

type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(userID string, req core.CreateGameRequest) Command {
	return Command{Type: CmdCreateGame, UserID: userID, Args: req}
}

func NewJoinGameCommand(gameID, userID string, req core.JoinGameRequest) Command {
	return Command{Type: CmdJoinGame, UserID: userID, GameID: gameID, Args: req}
}

func NewGetGameCommand(gameID string) Command {
	return Command{Type: CmdGetGame, GameID: gameID}
}

func NewMakeMoveCommand(gameID, userID string, req core.MoveRequest) Command {
	return Command{Type: CmdMakeMove, UserID: userID, GameID: gameID, Args: req}
}

func NewUndoMoveCommand(gameID, userID string, req core.UndoRequest) Command {
	return Command{Type: CmdUndoMove, UserID: userID, GameID: gameID, Args: req}
}

func NewDeleteGameCommand(gameID, userID string) Command {
	return Command{Type: CmdDeleteGame, UserID: userID, GameID: gameID}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{Type: CmdGetBoard, GameID: gameID}
}

// NewGetMovesCommand asks for the destinations of the piece on square, e.g. "c3"
func NewGetMovesCommand(gameID, square string) Command {
	return Command{Type: CmdGetMoves, GameID: gameID, Args: square}
}

func NewGetPiecesCommand(gameID string) Command {
	return Command{Type: CmdGetPieces, GameID: gameID}
}
