package selection

import (
	"errors"
	"testing"

	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(x, y int) engine.Position {
	return engine.Position{X: x, Y: y}
}

// holder keeps a mutable state behind a StateSource
type holder struct {
	state engine.GameState
}

func (h *holder) source() StateSource {
	return func() engine.GameState { return h.state }
}

func (h *holder) play(t *testing.T, mv Move) {
	t.Helper()
	next, err := engine.Play(h.state, mv.From, mv.To)
	require.NoError(t, err)
	h.state = next
}

func chainState() engine.GameState {
	state := engine.GameState{Turn: core.ColorRed, TurnType: engine.TurnNext, LastMoved: engine.NoPosition}
	state.Board.Place(engine.Piece{Color: core.ColorRed, Position: at(2, 5)})
	state.Board.Place(engine.Piece{Color: core.ColorBlack, Position: at(3, 4)})
	state.Board.Place(engine.Piece{Color: core.ColorBlack, Position: at(3, 2)})
	state.Board.Place(engine.Piece{Color: core.ColorBlack, Position: at(7, 0)})
	return state
}

func TestSelectFromOpening(t *testing.T) {
	h := &holder{state: engine.NewGame()}
	m := New(h.source())
	assert.Equal(t, Idle, m.Phase())

	// Back-row red man is boxed in
	assert.ErrorIs(t, m.Select(at(0, 7)), ErrNotSelectable)
	// Black cannot be picked on Red's turn
	assert.ErrorIs(t, m.Select(at(1, 2)), ErrNotSelectable)
	// Empty square
	assert.ErrorIs(t, m.Select(at(1, 4)), ErrNotSelectable)
	assert.Equal(t, Idle, m.Phase())

	require.NoError(t, m.Select(at(2, 5)))
	from, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, at(2, 5), from)
	assert.ElementsMatch(t, []engine.Position{at(1, 4), at(3, 4)}, m.Targets())

	// A failed reselection keeps the old highlight
	assert.Error(t, m.Select(at(0, 7)))
	from, _ = m.Selected()
	assert.Equal(t, at(2, 5), from)
}

func TestClickMovesAndSwitches(t *testing.T) {
	h := &holder{state: engine.NewGame()}
	m := New(h.source())

	_, moved, err := m.Click(at(2, 5))
	require.NoError(t, err)
	assert.False(t, moved)

	// Clicking another own piece switches selection
	_, moved, err = m.Click(at(4, 5))
	require.NoError(t, err)
	assert.False(t, moved)
	from, _ := m.Selected()
	assert.Equal(t, at(4, 5), from)

	mv, moved, err := m.Click(at(5, 4))
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, Move{From: at(4, 5), To: at(5, 4)}, mv)
	assert.Equal(t, PieceSelected, m.Phase(), "choosing does not advance on its own")

	h.play(t, mv)
	require.NoError(t, m.Advance(h.state.TurnType, h.state.LastMoved))
	assert.Equal(t, Idle, m.Phase())
	assert.Empty(t, m.Targets())
}

func TestForcedContinuation(t *testing.T) {
	h := &holder{state: chainState()}
	m := New(h.source())

	require.NoError(t, m.Select(at(2, 5)))
	assert.Equal(t, []engine.Position{at(4, 3), at(1, 4)}, m.Targets(), "captures listed first")

	mv, ok := m.Choose(at(4, 3))
	require.True(t, ok)
	h.play(t, mv)
	require.Equal(t, engine.TurnContinue, h.state.TurnType)

	require.NoError(t, m.Advance(h.state.TurnType, h.state.LastMoved))
	assert.True(t, m.Locked())
	from, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, at(4, 3), from)
	assert.Equal(t, []engine.Position{at(2, 1)}, m.Targets())

	// Pinned: other pieces cannot be picked, reselecting the same one is fine
	assert.ErrorIs(t, m.Select(at(7, 0)), ErrLocked)
	assert.NoError(t, m.Select(at(4, 3)))
	_, _, err := m.Click(at(5, 2))
	assert.ErrorIs(t, err, ErrLocked)

	mv, moved, err := m.Click(at(2, 1))
	require.NoError(t, err)
	require.True(t, moved)
	h.play(t, mv)
	assert.Equal(t, engine.TurnNext, h.state.TurnType)
	assert.Equal(t, core.ColorBlack, h.state.Turn)

	require.NoError(t, m.Advance(h.state.TurnType, h.state.LastMoved))
	assert.False(t, m.Locked())
	assert.Equal(t, Idle, m.Phase())
}

func TestStateSourceContinueMode(t *testing.T) {
	state, err := engine.Play(chainState(), at(2, 5), at(4, 3))
	require.NoError(t, err)
	src := StateSource(func() engine.GameState { return state })

	opts, err := src.Options(at(4, 3))
	require.NoError(t, err)
	assert.True(t, opts.Selectable)
	assert.Equal(t, []engine.Position{at(2, 1)}, opts.Captures)
	assert.Empty(t, opts.Moves)

	opts, err = src.Options(at(7, 0))
	require.NoError(t, err)
	assert.False(t, opts.Selectable)

	state.GameOver = true
	opts, err = src.Options(at(4, 3))
	require.NoError(t, err)
	assert.False(t, opts.Selectable)
}

type failingSource struct{}

func (failingSource) Options(engine.Position) (Options, error) {
	return Options{}, errors.New("offline")
}

func TestSourceErrorPropagates(t *testing.T) {
	m := New(failingSource{})
	assert.EqualError(t, m.Select(at(2, 5)), "offline")
	assert.Equal(t, Idle, m.Phase())
	assert.EqualError(t, m.Advance(engine.TurnContinue, at(2, 5)), "offline")
}
