package engine

import "checkers/internal/server/core"

// IsSelectablePiece reports whether the piece at (x, y) belongs to the side to
// move and has at least one legal move
func IsSelectablePiece(x, y int, state GameState) bool {
	pos := Position{X: x, Y: y}
	if !IsValidCoordinate(pos) {
		return false
	}
	piece, ok := state.Board.At(pos).Piece()
	if !ok || piece.Color != state.Turn {
		return false
	}
	return len(LegalMoves(piece, state.Board)) > 0
}

// SelectablePieces lists the squares the side to move may pick up, in row-major
// order. During a capture chain only the continuing piece qualifies.
func SelectablePieces(state GameState) []Position {
	if state.TurnType == TurnContinue {
		piece, ok := state.Board.At(state.LastMoved).Piece()
		if ok && piece.Color == state.Turn && len(CaptureMoves(piece, state.Board)) > 0 {
			return []Position{state.LastMoved}
		}
		return []Position{}
	}

	pieces := []Position{}
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if IsSelectablePiece(x, y, state) {
				pieces = append(pieces, Position{X: x, Y: y})
			}
		}
	}
	return pieces
}

// HasLegalMove reports whether any piece of color can move
func HasLegalMove(state GameState, color core.Color) bool {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece, ok := state.Board.At(Position{X: x, Y: y}).Piece()
			if ok && piece.Color == color && len(LegalMoves(piece, state.Board)) > 0 {
				return true
			}
		}
	}
	return false
}

// IsGameOver checks the side NOT holding the turn: the game is over when that
// side has no piece with a legal move, either because it has no pieces left or
// because every remaining piece is blocked.
func IsGameOver(state GameState) bool {
	return !HasLegalMove(state, core.OppositeColor(state.Turn))
}

// Winner returns the side not holding the turn once IsGameOver holds: the
// turn holder is left without a reply and loses.
func Winner(state GameState) (core.Color, bool) {
	if !IsGameOver(state) {
		return 0, false
	}
	return core.OppositeColor(state.Turn), true
}

// Outcome decides whether a live game has ended after a transition.
// A side to move without any legal move loses; otherwise IsGameOver and Winner decide.
func Outcome(state GameState) (bool, core.Color) {
	if !HasLegalMove(state, state.Turn) {
		return true, core.OppositeColor(state.Turn)
	}
	if winner, over := Winner(state); over {
		return true, winner
	}
	return false, 0
}
