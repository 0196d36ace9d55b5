package board

import (
	"strings"
	"testing"

	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareNames(t *testing.T) {
	assert.Equal(t, "a3", SquareName(engine.Position{X: 0, Y: 5}))
	assert.Equal(t, "b4", SquareName(engine.Position{X: 1, Y: 4}))
	assert.Equal(t, "a8", SquareName(engine.Position{X: 0, Y: 0}))
	assert.Equal(t, "h1", SquareName(engine.Position{X: 7, Y: 7}))
	assert.Equal(t, "-", SquareName(engine.NoPosition))

	pos, err := ParseSquare("C3")
	require.NoError(t, err)
	assert.Equal(t, engine.Position{X: 2, Y: 5}, pos)

	for _, bad := range []string{"", "a", "i1", "a9", "a0", "abc"} {
		_, err := ParseSquare(bad)
		assert.ErrorIs(t, err, ErrInvalidSquare, bad)
	}
}

func TestParseMove(t *testing.T) {
	from, to, err := ParseMove("a3b4")
	require.NoError(t, err)
	assert.Equal(t, engine.Position{X: 0, Y: 5}, from)
	assert.Equal(t, engine.Position{X: 1, Y: 4}, to)
	assert.Equal(t, "a3b4", FormatMove(from, to))

	_, _, err = ParseMove("a3b")
	assert.ErrorIs(t, err, ErrInvalidMove)
	_, _, err = ParseMove("a3z4")
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestStartingPositionMatchesNewGame(t *testing.T) {
	assert.Equal(t, StartingPosition, Encode(engine.NewGame()))

	state, err := Parse(StartingPosition)
	require.NoError(t, err)
	assert.Equal(t, engine.NewGame(), state)
}

func TestEncodeAfterCaptureChain(t *testing.T) {
	state, err := Parse("--------/--------/--------/--b-----/---r----/--------/-----r--/-------- b n -")
	require.NoError(t, err)
	require.Equal(t, core.ColorBlack, state.Turn)

	next, err := engine.Play(state, engine.Position{X: 2, Y: 3}, engine.Position{X: 4, Y: 5})
	require.NoError(t, err)

	encoded := Encode(next)
	assert.Equal(t, "--------/--------/--------/--------/--------/----b---/-----r--/-------- b c e3", encoded)

	back, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, next, back)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"field count", "-b-b-b-b/b-b-b-b-/-b-b-b-b/--------/--------/r-r-r-r-/-r-r-r-r/r-r-r-r- r n"},
		{"row count", "-b-b-b-b/b-b-b-b-/-b-b-b-b/--------/--------/r-r-r-r-/-r-r-r-r r n -"},
		{"short row", "-b-b-b-b/b-b-b-b-/-b-b-b-b/-------/--------/r-r-r-r-/-r-r-r-r/r-r-r-r- r n -"},
		{"unknown piece", "-b-b-b-b/b-b-b-b-/-b-b-b-b/---x----/--------/r-r-r-r-/-r-r-r-r/r-r-r-r- r n -"},
		{"light square", "b-------/--------/--------/--------/--------/--------/--------/-------- r n -"},
		{"uncrowned man on far row", "-r------/--------/--------/--------/--------/--------/--------/-------- r n -"},
		{"too many pieces", "-b-b-b-b/b-b-b-b-/-b-b-b-b/b-------/--------/r-r-r-r-/-r-r-r-r/r-r-r-r- r n -"},
		{"bad turn", StartingPosition[:71] + " w n -"},
		{"bad turn type", StartingPosition[:71] + " r x -"},
		{"bad last moved", StartingPosition[:71] + " r n z9"},
		{"continue without piece", StartingPosition[:71] + " r c d4"},
		{"continue without capture", StartingPosition[:71] + " r c a3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, ErrInvalidPosition)
		})
	}
}

func TestToASCII(t *testing.T) {
	out := ToASCII(engine.NewGame())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)

	assert.Equal(t, "  a b c d e f g h", lines[0])
	assert.Equal(t, "8   b   b   b   b 8", lines[1])
	assert.Equal(t, "5 .   .   .   .   5", lines[4])
	assert.Equal(t, "1 r   r   r   r   1", lines[8])
	assert.Equal(t, lines[0], lines[9])
}
