package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkers/internal/server/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.URL + "/")
	c.Out = io.Discard
	return c
}

func TestMakeMoveSendsJSONAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/games/g1/moves", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req MoveRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c3d4", req.Move)

		json.NewEncoder(w).Encode(GameResponse{GameID: "g1", Turn: "b", Moves: []string{"c3d4"}})
	})
	c.SetToken("tok")

	resp, err := c.MakeMove("g1", "c3d4")
	require.NoError(t, err)
	assert.Equal(t, "b", resp.Turn)
	assert.Equal(t, []string{"c3d4"}, resp.Moves)
}

func TestErrorResponseBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "illegal move", Code: core.ErrInvalidMove})
	})

	_, err := c.MakeMove("g1", "a1a2")
	require.Error(t, err)
	assert.True(t, IsCode(err, core.ErrInvalidMove))
	assert.False(t, IsCode(err, core.ErrGameOver))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, err.Error(), "illegal move")
}

func TestQueryParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/games/g1/moves":
			assert.Equal(t, "c3", r.URL.Query().Get("square"))
			json.NewEncoder(w).Encode(MovesResponse{Square: "c3", Selectable: true, Moves: []string{"b4", "d4"}})
		case "/api/v1/games/g1":
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			assert.Equal(t, "3", r.URL.Query().Get("moveCount"))
			json.NewEncoder(w).Encode(GameResponse{GameID: "g1"})
		default:
			http.NotFound(w, r)
		}
	})

	moves, err := c.GetMoves("g1", "c3")
	require.NoError(t, err)
	assert.True(t, moves.Selectable)
	assert.Equal(t, []string{"b4", "d4"}, moves.Moves)

	_, err = c.GetGameWithPoll("g1", 3)
	require.NoError(t, err)
}

func TestDeleteIgnoresEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteGame("g1"))
}
