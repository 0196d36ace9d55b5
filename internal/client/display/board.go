package display

import (
	"fmt"
	"io"
	"strings"

	"checkers/internal/server/engine"
)

// Highlight marks the selected piece and its reachable squares
type Highlight struct {
	Selected engine.Position
	Targets  []engine.Position
}

// NoHighlight renders a plain board
var NoHighlight = Highlight{Selected: engine.NoPosition}

func (h Highlight) isTarget(pos engine.Position) bool {
	for _, t := range h.Targets {
		if t == pos {
			return true
		}
	}
	return false
}

// RenderBoard colours the framed ASCII board produced by the server: one
// header line, eight rank lines of "N c c c c c c c c N", one footer line.
// Empty target squares are drawn as '*'.
func RenderBoard(w io.Writer, ascii string, hl Highlight, theme Theme) {
	tc, ok := themes[theme]
	if !ok {
		tc = themes[ThemeOff]
	}

	lines := strings.Split(strings.TrimRight(ascii, "\n"), "\n")
	for i, line := range lines {
		y := i - 1
		if y < 0 || y >= engine.BoardSize || len(line) < 2+2*engine.BoardSize {
			fmt.Fprintf(w, "%s%s%s\n", Cyan, line, Reset)
			continue
		}

		var sb strings.Builder
		sb.WriteString(Cyan + line[:2] + Reset)
		for x := 0; x < engine.BoardSize; x++ {
			sb.WriteString(cell(line[2+2*x], engine.Position{X: x, Y: y}, hl, tc))
		}
		sb.WriteString(Cyan + line[2+2*engine.BoardSize:] + Reset)
		fmt.Fprintln(w, sb.String())
	}
}

func cell(ch byte, pos engine.Position, hl Highlight, tc themeColors) string {
	bg := tc.lightBg
	if (pos.X+pos.Y)%2 == 1 {
		bg = tc.darkBg
	}

	var fg string
	switch {
	case pos == hl.Selected:
		fg = Bold + Yellow
	case ch == 'r' || ch == 'R':
		fg = Red
	case ch == 'b' || ch == 'B':
		fg = tc.black
	}
	if ch == '.' && hl.isTarget(pos) {
		ch = '*'
		fg = Green
	}

	if bg == "" && fg == "" {
		return string(ch) + " "
	}
	return bg + fg + string(ch) + " " + Reset
}

// ColorForTurn returns a coloured side name for "r" or "b"
func ColorForTurn(turn string) string {
	if turn == "r" {
		return Red + "Red" + Reset
	}
	return Blue + "Black" + Reset
}
