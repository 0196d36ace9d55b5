// Package engine implements the English draughts rules: board layout, move
// generation, move application with forced capture chains, and terminal checks.
// All functions are pure; a GameState is a value and is never mutated in place.
package engine

import (
	"fmt"
	"strings"

	"checkers/internal/server/core"
)

const BoardSize = 8

// Position is a board coordinate. (0,0) is the top-left square as rendered.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoPosition marks the absence of a last-moved piece
var NoPosition = Position{X: -1, Y: -1}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Position) index() int {
	return p.Y*BoardSize + p.X
}

// Piece is a man or, once promoted, a king
type Piece struct {
	Color    core.Color `json:"color"`
	Position Position   `json:"position"`
	Promoted bool       `json:"promoted"`
}

// Symbol returns r/b for men and R/B for kings
func (p Piece) Symbol() byte {
	ch := byte('r')
	if p.Color == core.ColorBlack {
		ch = 'b'
	}
	if p.Promoted {
		ch -= 'a' - 'A'
	}
	return ch
}

// Square is either empty or holds exactly one piece
type Square struct {
	piece    Piece
	occupied bool
}

// Empty returns an unoccupied square
func Empty() Square {
	return Square{}
}

// Occupied returns a square holding p
func Occupied(p Piece) Square {
	return Square{piece: p, occupied: true}
}

// IsEmpty reports whether no piece stands on the square
func (s Square) IsEmpty() bool {
	return !s.occupied
}

func (s Square) Piece() (Piece, bool) {
	return s.piece, s.occupied
}

// Board is a flat row-major grid. Copying the value copies every square.
type Board struct {
	squares [BoardSize * BoardSize]Square
}

// At returns the square at pos, or an empty square when pos is off the board
func (b *Board) At(pos Position) Square {
	if !IsValidCoordinate(pos) {
		return Empty()
	}
	return b.squares[pos.index()]
}

// Place puts p on the board at p.Position
func (b *Board) Place(p Piece) {
	if !IsValidCoordinate(p.Position) {
		return
	}
	b.squares[p.Position.index()] = Occupied(p)
}

func (b *Board) clear(pos Position) {
	if !IsValidCoordinate(pos) {
		return
	}
	b.squares[pos.index()] = Empty()
}

// Pieces returns every piece in row-major order
func (b *Board) Pieces() []Piece {
	var pieces []Piece
	for _, sq := range b.squares {
		if p, ok := sq.Piece(); ok {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// Count returns the number of pieces of the given colour
func (b *Board) Count(color core.Color) int {
	n := 0
	for _, sq := range b.squares {
		if p, ok := sq.Piece(); ok && p.Color == color {
			n++
		}
	}
	return n
}

// String dumps the board one row per line: '-' empty, r/b men, R/B kings
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if p, ok := b.At(Position{X: x, Y: y}).Piece(); ok {
				sb.WriteByte(p.Symbol())
			} else {
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// TurnType tells whether the turn passes or the last mover must capture again
type TurnType int

const (
	TurnNext TurnType = iota + 1
	TurnContinue
)

func (t TurnType) String() string {
	switch t {
	case TurnNext:
		return "next"
	case TurnContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// GameState is a complete, immutable-by-convention snapshot of a game.
// LastMoved is meaningful only when TurnType is TurnContinue.
type GameState struct {
	Board     Board
	Turn      core.Color
	TurnType  TurnType
	GameOver  bool
	LastMoved Position
}

// NewGame returns the starting position: Black on the dark squares of rows 0-2,
// Red on rows 5-7, Red to move.
func NewGame() GameState {
	state := GameState{
		Turn:      core.ColorRed,
		TurnType:  TurnNext,
		LastMoved: NoPosition,
	}
	for y := 0; y < BoardSize; y++ {
		var color core.Color
		switch {
		case y <= 2:
			color = core.ColorBlack
		case y >= 5:
			color = core.ColorRed
		default:
			continue
		}
		for x := 0; x < BoardSize; x++ {
			if (x+y)%2 == 1 {
				state.Board.Place(Piece{Color: color, Position: Position{X: x, Y: y}})
			}
		}
	}
	return state
}

// IsValidCoordinate reports whether pos lies on the 8x8 board
func IsValidCoordinate(pos Position) bool {
	return pos.X >= 0 && pos.X < BoardSize && pos.Y >= 0 && pos.Y < BoardSize
}
