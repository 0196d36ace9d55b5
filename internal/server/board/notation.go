// Package board converts engine states to and from their text forms: square
// names, four-character move notation, position strings and ASCII diagrams.
package board

import (
	"errors"
	"fmt"
	"strings"

	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

const (
	StartingPosition = "-b-b-b-b/b-b-b-b-/-b-b-b-b/--------/--------/r-r-r-r-/-r-r-r-r/r-r-r-r- r n -"

	maxPiecesPerSide = 12
)

var (
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidMove     = errors.New("invalid move notation")
	ErrInvalidPosition = errors.New("invalid position")
)

// SquareName returns the algebraic name of pos: file a-h from x, rank 8-y
func SquareName(pos engine.Position) string {
	if !engine.IsValidCoordinate(pos) {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+pos.X, '8'-pos.Y)
}

func ParseSquare(s string) (engine.Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return engine.NoPosition, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return engine.Position{X: int(s[0] - 'a'), Y: int('8' - s[1])}, nil
}

func FormatMove(from, to engine.Position) string {
	return SquareName(from) + SquareName(to)
}

// ParseMove splits "<from><to>" notation such as "c3d4"
func ParseMove(s string) (engine.Position, engine.Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 {
		return engine.NoPosition, engine.NoPosition, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return engine.NoPosition, engine.NoPosition, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return engine.NoPosition, engine.NoPosition, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}
	return from, to, nil
}

// Encode renders state as "<rows> <turn> <turn type> <last moved>"
func Encode(state engine.GameState) string {
	rows := make([]string, engine.BoardSize)
	for y := 0; y < engine.BoardSize; y++ {
		var sb strings.Builder
		for x := 0; x < engine.BoardSize; x++ {
			if p, ok := state.Board.At(engine.Position{X: x, Y: y}).Piece(); ok {
				sb.WriteByte(p.Symbol())
			} else {
				sb.WriteByte('-')
			}
		}
		rows[y] = sb.String()
	}

	turnType := "n"
	if state.TurnType == engine.TurnContinue {
		turnType = "c"
	}

	return strings.Join([]string{
		strings.Join(rows, "/"),
		state.Turn.String(),
		turnType,
		SquareName(state.LastMoved),
	}, " ")
}

// Parse reads a position string produced by Encode
func Parse(s string) (engine.GameState, error) {
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return engine.GameState{}, fmt.Errorf("%w: expected 4 fields, got %d", ErrInvalidPosition, len(parts))
	}

	state := engine.GameState{LastMoved: engine.NoPosition}

	rows := strings.Split(parts[0], "/")
	if len(rows) != engine.BoardSize {
		return engine.GameState{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidPosition, engine.BoardSize, len(rows))
	}

	counts := map[core.Color]int{}
	for y, row := range rows {
		if len(row) != engine.BoardSize {
			return engine.GameState{}, fmt.Errorf("%w: row %d has %d cells", ErrInvalidPosition, y, len(row))
		}
		for x := 0; x < engine.BoardSize; x++ {
			ch := row[x]
			if ch == '-' {
				continue
			}
			piece, err := pieceFromSymbol(ch, engine.Position{X: x, Y: y})
			if err != nil {
				return engine.GameState{}, err
			}
			if (x+y)%2 == 0 {
				return engine.GameState{}, fmt.Errorf("%w: piece on light square %s", ErrInvalidPosition, SquareName(piece.Position))
			}
			if !piece.Promoted && onPromotionRow(piece) {
				return engine.GameState{}, fmt.Errorf("%w: uncrowned man on %s", ErrInvalidPosition, SquareName(piece.Position))
			}
			counts[piece.Color]++
			state.Board.Place(piece)
		}
	}
	for _, color := range []core.Color{core.ColorRed, core.ColorBlack} {
		if counts[color] > maxPiecesPerSide {
			return engine.GameState{}, fmt.Errorf("%w: %s has %d pieces", ErrInvalidPosition, color.Name(), counts[color])
		}
	}

	switch parts[1] {
	case "r":
		state.Turn = core.ColorRed
	case "b":
		state.Turn = core.ColorBlack
	default:
		return engine.GameState{}, fmt.Errorf("%w: turn must be 'r' or 'b'", ErrInvalidPosition)
	}

	switch parts[2] {
	case "n":
		state.TurnType = engine.TurnNext
	case "c":
		state.TurnType = engine.TurnContinue
	default:
		return engine.GameState{}, fmt.Errorf("%w: turn type must be 'n' or 'c'", ErrInvalidPosition)
	}

	if parts[3] != "-" {
		last, err := ParseSquare(parts[3])
		if err != nil {
			return engine.GameState{}, fmt.Errorf("%w: last moved: %w", ErrInvalidPosition, err)
		}
		state.LastMoved = last
	}

	if state.TurnType == engine.TurnContinue {
		piece, ok := state.Board.At(state.LastMoved).Piece()
		if !ok || piece.Color != state.Turn {
			return engine.GameState{}, fmt.Errorf("%w: continuing piece missing on %s", ErrInvalidPosition, parts[3])
		}
		if len(engine.CaptureMoves(piece, state.Board)) == 0 {
			return engine.GameState{}, fmt.Errorf("%w: continuing piece on %s has no capture", ErrInvalidPosition, parts[3])
		}
	}

	return state, nil
}

func pieceFromSymbol(ch byte, pos engine.Position) (engine.Piece, error) {
	switch ch {
	case 'r':
		return engine.Piece{Color: core.ColorRed, Position: pos}, nil
	case 'b':
		return engine.Piece{Color: core.ColorBlack, Position: pos}, nil
	case 'R':
		return engine.Piece{Color: core.ColorRed, Position: pos, Promoted: true}, nil
	case 'B':
		return engine.Piece{Color: core.ColorBlack, Position: pos, Promoted: true}, nil
	default:
		return engine.Piece{}, fmt.Errorf("%w: unknown piece %q at %s", ErrInvalidPosition, ch, SquareName(pos))
	}
}

func onPromotionRow(p engine.Piece) bool {
	if p.Color == core.ColorRed {
		return p.Position.Y == 0
	}
	return p.Position.Y == engine.BoardSize-1
}

// ToASCII draws the board framed by file letters and rank numbers.
// Dark squares show '.' when empty, light squares are blank.
func ToASCII(state engine.GameState) string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for y := 0; y < engine.BoardSize; y++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-y))
		for x := 0; x < engine.BoardSize; x++ {
			switch p, ok := state.Board.At(engine.Position{X: x, Y: y}).Piece(); {
			case ok:
				sb.WriteByte(p.Symbol())
			case (x+y)%2 == 1:
				sb.WriteByte('.')
			default:
				sb.WriteByte(' ')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%d\n", 8-y))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
