package session

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkers/internal/client/api"
	"checkers/internal/client/selection"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, moves map[string]api.MovesResponse) *Session {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := moves[r.URL.Query().Get("square")]
		if !ok {
			resp = api.MovesResponse{Square: r.URL.Query().Get("square"), Captures: []string{}, Moves: []string{}}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	s := New(srv.URL)
	s.Client.Out = io.Discard
	s.SetCurrentGame("g1")
	return s
}

func TestRemoteSelection(t *testing.T) {
	s := newTestSession(t, map[string]api.MovesResponse{
		"c3": {Square: "c3", Selectable: true, Captures: []string{}, Moves: []string{"b4", "d4"}},
	})

	m := s.Selection()
	require.NoError(t, m.Select(engine.Position{X: 2, Y: 5}))
	assert.Equal(t, []engine.Position{{X: 1, Y: 4}, {X: 3, Y: 4}}, m.Targets())

	assert.ErrorIs(t, m.Select(engine.Position{X: 0, Y: 7}), selection.ErrNotSelectable)

	mv, ok := m.Choose(engine.Position{X: 3, Y: 4})
	require.True(t, ok)
	assert.Equal(t, engine.Position{X: 2, Y: 5}, mv.From)
}

func TestAdvanceFollowsContinuation(t *testing.T) {
	s := newTestSession(t, map[string]api.MovesResponse{
		"e5": {Square: "e5", Selectable: true, Captures: []string{"c7"}, Moves: []string{}},
	})

	err := s.Advance(&api.GameResponse{TurnType: "continue", ContinueFrom: "e5"})
	require.NoError(t, err)
	m := s.Selection()
	assert.True(t, m.Locked())
	from, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, engine.Position{X: 4, Y: 3}, from)
	assert.Equal(t, []engine.Position{{X: 2, Y: 1}}, m.Targets())

	require.NoError(t, s.Advance(&api.GameResponse{TurnType: "next"}))
	assert.Equal(t, selection.Idle, m.Phase())
}

func TestSetGameStateTracksSeat(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetCurrentUser("u1")

	s.SetGameState(&api.GameResponse{
		Moves: []string{"c3d4"},
		Players: core.PlayersResponse{
			Red:   &core.Player{ID: "p1"},
			Black: &core.Player{ID: "p2", UserID: "u1"},
		},
	})
	assert.Equal(t, "b", s.GetPlayerColor())
	assert.Equal(t, 1, s.GetLastMoveCount())

	s.SetCurrentGame("g2")
	assert.Empty(t, s.GetPlayerColor())
	assert.Nil(t, s.GetGameState())
}

func TestContinuationOf(t *testing.T) {
	tt, pos := ContinuationOf(nil)
	assert.Equal(t, engine.TurnNext, tt)
	assert.Equal(t, engine.NoPosition, pos)

	tt, pos = ContinuationOf(&api.GameResponse{TurnType: "continue", ContinueFrom: "zz"})
	assert.Equal(t, engine.TurnNext, tt)

	tt, pos = ContinuationOf(&api.GameResponse{TurnType: "continue", ContinueFrom: "a3"})
	assert.Equal(t, engine.TurnContinue, tt)
	assert.Equal(t, engine.Position{X: 0, Y: 5}, pos)
}
