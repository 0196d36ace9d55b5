package engine

import "checkers/internal/server/core"

// forward is the row direction a man advances in: Red toward row 0, Black toward row 7
func forward(color core.Color) int {
	if color == core.ColorRed {
		return -1
	}
	return 1
}

// candidates returns the diagonal targets at the given distance in generation order.
// Men get the two forward diagonals, kings all four.
func candidates(piece Piece, distance int) []Position {
	x, y := piece.Position.X, piece.Position.Y
	if piece.Promoted {
		return []Position{
			{X: x + distance, Y: y + distance},
			{X: x - distance, Y: y + distance},
			{X: x + distance, Y: y - distance},
			{X: x - distance, Y: y - distance},
		}
	}
	dy := forward(piece.Color) * distance
	return []Position{
		{X: x + distance, Y: y + dy},
		{X: x - distance, Y: y + dy},
	}
}

// NonCaptureMoves returns the empty squares one diagonal step away that the piece may move to
func NonCaptureMoves(piece Piece, board Board) []Position {
	moves := []Position{}
	for _, to := range candidates(piece, 1) {
		if IsValidCoordinate(to) && board.At(to).IsEmpty() {
			moves = append(moves, to)
		}
	}
	return moves
}

// CaptureMoves returns the landing squares of single jumps over an opposing piece
func CaptureMoves(piece Piece, board Board) []Position {
	moves := []Position{}
	for _, to := range candidates(piece, 2) {
		if !IsValidCoordinate(to) || !board.At(to).IsEmpty() {
			continue
		}
		mid, ok := board.At(midpoint(piece.Position, to)).Piece()
		if ok && mid.Color != piece.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

// LegalMoves returns captures followed by non-captures
func LegalMoves(piece Piece, board Board) []Position {
	return append(CaptureMoves(piece, board), NonCaptureMoves(piece, board)...)
}

func midpoint(from, to Position) Position {
	return Position{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
}

func containsPosition(list []Position, pos Position) bool {
	for _, p := range list {
		if p == pos {
			return true
		}
	}
	return false
}
