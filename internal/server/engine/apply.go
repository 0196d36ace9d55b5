package engine

import (
	"fmt"

	"checkers/internal/server/core"
)

// ApplyMove moves the piece on from to to and returns the resulting state.
// The move is trusted: a horizontal distance of two is taken to be a capture,
// which only holds for pairs produced by the move generators. Callers outside
// this package should use Play. An empty source square returns state unchanged.
func ApplyMove(from, to Position, state GameState) GameState {
	board := state.Board

	moving, ok := board.At(from).Piece()
	if !ok {
		return state
	}

	moved := Piece{
		Color:    moving.Color,
		Position: to,
		Promoted: moving.Promoted || reachesFarRow(moving.Color, to),
	}

	board.clear(from)
	board.Place(moved)

	captured := abs(from.X-to.X) == 2
	if captured {
		board.clear(midpoint(from, to))
	}

	next := GameState{
		Board:     board,
		Turn:      core.OppositeColor(state.Turn),
		TurnType:  TurnNext,
		GameOver:  state.GameOver,
		LastMoved: to,
	}
	if captured && len(CaptureMoves(moved, board)) > 0 {
		next.Turn = state.Turn
		next.TurnType = TurnContinue
	}
	return next
}

// Play validates the move against the current state and applies it
func Play(state GameState, from, to Position) (GameState, error) {
	if state.GameOver {
		return state, ErrGameOver
	}
	if !IsValidCoordinate(from) || !IsValidCoordinate(to) {
		return state, fmt.Errorf("%w: %v -> %v", ErrInvalidCoordinate, from, to)
	}

	piece, ok := state.Board.At(from).Piece()
	if !ok {
		return state, fmt.Errorf("%w: %v", ErrNoPiece, from)
	}
	if piece.Color != state.Turn {
		return state, fmt.Errorf("%w: %v", ErrNotYourPiece, from)
	}

	if state.TurnType == TurnContinue {
		if from != state.LastMoved || !containsPosition(CaptureMoves(piece, state.Board), to) {
			return state, fmt.Errorf("%w: piece on %v must capture again", ErrMustContinue, state.LastMoved)
		}
		return ApplyMove(from, to, state), nil
	}

	if !containsPosition(LegalMoves(piece, state.Board), to) {
		return state, fmt.Errorf("%w: %v -> %v", ErrIllegalMove, from, to)
	}
	return ApplyMove(from, to, state), nil
}

// IsCapture reports whether the move between from and to jumps a piece
func IsCapture(from, to Position) bool {
	return abs(from.X-to.X) == 2
}

func reachesFarRow(color core.Color, pos Position) bool {
	if color == core.ColorRed {
		return pos.Y == 0
	}
	return pos.Y == BoardSize-1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
