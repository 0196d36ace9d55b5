package game

import (
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame() *Game {
	red := core.NewPlayer(core.PlayerConfig{Name: "alice"}, core.ColorRed)
	black := core.NewPlayer(core.PlayerConfig{Name: "bob"}, core.ColorBlack)
	return New(engine.NewGame(), red, black)
}

func play(t *testing.T, g *Game, move string) {
	t.Helper()
	from, to, err := board.ParseMove(move)
	require.NoError(t, err)
	next, err := engine.Play(g.CurrentState(), from, to)
	require.NoError(t, err)
	g.AddSnapshot(next, move)
}

func TestNewGame(t *testing.T) {
	g := newTestGame()

	assert.Equal(t, board.StartingPosition, g.CurrentPosition())
	assert.Equal(t, board.StartingPosition, g.InitialPosition())
	assert.Equal(t, core.ColorRed, g.NextTurnColor())
	assert.Equal(t, g.GetPlayer(core.ColorRed).ID, g.CurrentSnapshot().PlayerID)
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Empty(t, g.Moves())
	assert.Equal(t, 0, g.MoveCount())
}

func TestSnapshotsTrackTurn(t *testing.T) {
	g := newTestGame()
	play(t, g, "a3b4")

	assert.Equal(t, []string{"a3b4"}, g.Moves())
	assert.Equal(t, core.ColorBlack, g.NextTurnColor())
	assert.Equal(t, g.GetPlayer(core.ColorBlack), g.NextPlayer())
	assert.Equal(t, engine.TurnNext, g.CurrentSnapshot().TurnType)
	assert.Equal(t, board.Encode(g.CurrentState()), g.CurrentPosition())
}

func TestUndoMoves(t *testing.T) {
	g := newTestGame()
	play(t, g, "a3b4")
	play(t, g, "b6a5")
	g.SetState(core.StateRedWins)
	g.SetLastResult(&MoveResult{Move: "b6a5"})

	require.NoError(t, g.UndoMoves(1))
	assert.Equal(t, []string{"a3b4"}, g.Moves())
	assert.Equal(t, core.StateOngoing, g.State())
	assert.Nil(t, g.LastResult())

	// Earlier snapshots are untouched by later transitions
	require.NoError(t, g.UndoMoves(1))
	assert.Equal(t, engine.NewGame(), g.CurrentState())

	assert.Error(t, g.UndoMoves(1))
	assert.Error(t, g.UndoMoves(0))
}

func TestClaimSlot(t *testing.T) {
	g := newTestGame()

	assert.Equal(t, "", g.GetSlotOwner(core.ColorRed))
	require.NoError(t, g.ClaimSlot(core.ColorRed, "user-1"))
	assert.Equal(t, "user-1", g.GetSlotOwner(core.ColorRed))

	require.NoError(t, g.ClaimSlot(core.ColorRed, "user-1"))
	assert.ErrorIs(t, g.ClaimSlot(core.ColorRed, "user-2"), ErrSlotTaken)
	require.NoError(t, g.ClaimSlot(core.ColorBlack, "user-2"))
	assert.Error(t, g.ClaimSlot(core.Color(9), "user-3"))
}
