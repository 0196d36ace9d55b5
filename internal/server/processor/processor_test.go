package processor

import (
	"testing"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	svc := service.New(nil, []byte("secret"), service.DefaultLimits())
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return New(svc)
}

func createGame(t *testing.T, p *Processor, position string) core.GameResponse {
	t.Helper()
	resp := p.Execute(NewCreateGameCommand("", core.CreateGameRequest{Position: position}))
	require.True(t, resp.Success, "%+v", resp.Error)
	return resp.Data.(core.GameResponse)
}

func requireError(t *testing.T, resp ProcessorResponse, code string) {
	t.Helper()
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, code, resp.Error.Code, resp.Error.Error)
}

func TestCreateGame(t *testing.T) {
	p := newTestProcessor(t)

	g := createGame(t, p, "")
	assert.Equal(t, board.StartingPosition, g.Position)
	assert.Equal(t, "r", g.Turn)
	assert.Equal(t, "next", g.TurnType)
	assert.Equal(t, "ongoing", g.State)
	assert.NotEmpty(t, g.Players.Red.ID)

	requireError(t, p.Execute(NewCreateGameCommand("", core.CreateGameRequest{Position: "nonsense"})), core.ErrInvalidPosition)

	// Red to move while Black cannot reply is decided on creation, in Black's favour
	decided := createGame(t, p, "--------/--------/--------/--------/--------/--------/-------b/------r- r n -")
	assert.Equal(t, "black wins", decided.State)
}

func TestMakeMove(t *testing.T) {
	p := newTestProcessor(t)
	g := createGame(t, p, "")

	resp := p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "a3b4"}))
	require.True(t, resp.Success)
	data := resp.Data.(core.GameResponse)
	assert.Equal(t, "b", data.Turn)
	assert.Equal(t, []string{"a3b4"}, data.Moves)
	require.NotNil(t, data.LastMove)
	assert.Equal(t, "r", data.LastMove.PlayerColor)

	requireError(t, p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "zz"})), core.ErrInvalidMove)
	requireError(t, p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "c3d4"})), core.ErrNotYourTurn)
	requireError(t, p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "b6b5"})), core.ErrInvalidMove)
	requireError(t, p.Execute(NewMakeMoveCommand("missing", "", core.MoveRequest{Move: "a3b4"})), core.ErrGameNotFound)
}

func TestCaptureChainThroughCommands(t *testing.T) {
	p := newTestProcessor(t)
	g := createGame(t, p, "--------/--------/--------/--b-----/---r----/--------/-----r--/-------- b n -")

	resp := p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "c5e3"}))
	require.True(t, resp.Success)
	data := resp.Data.(core.GameResponse)
	assert.Equal(t, "continue", data.TurnType)
	assert.Equal(t, "e3", data.ContinueFrom)
	assert.True(t, data.LastMove.Capture)

	pieces := p.Execute(NewGetPiecesCommand(g.GameID)).Data.(core.PiecesResponse)
	assert.Equal(t, []string{"e3"}, pieces.Pieces)

	moves := p.Execute(NewGetMovesCommand(g.GameID, "e3")).Data.(core.MovesResponse)
	assert.True(t, moves.Selectable)
	assert.Equal(t, []string{"g1"}, moves.Captures)
	assert.Empty(t, moves.Moves)

	resp = p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "e3g1"}))
	require.True(t, resp.Success)
	data = resp.Data.(core.GameResponse)
	assert.Equal(t, "black wins", data.State)
	assert.True(t, data.LastMove.Promotion)

	requireError(t, p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "g1h2"})), core.ErrGameOver)

	pieces = p.Execute(NewGetPiecesCommand(g.GameID)).Data.(core.PiecesResponse)
	assert.Empty(t, pieces.Pieces)
}

func TestGetMovesAndPieces(t *testing.T) {
	p := newTestProcessor(t)
	g := createGame(t, p, "")

	moves := p.Execute(NewGetMovesCommand(g.GameID, "a3")).Data.(core.MovesResponse)
	assert.True(t, moves.Selectable)
	assert.Equal(t, []string{"b4"}, moves.Moves)
	assert.Empty(t, moves.Captures)

	moves = p.Execute(NewGetMovesCommand(g.GameID, "b2")).Data.(core.MovesResponse)
	assert.False(t, moves.Selectable)

	moves = p.Execute(NewGetMovesCommand(g.GameID, "d4")).Data.(core.MovesResponse)
	assert.False(t, moves.Selectable)

	requireError(t, p.Execute(NewGetMovesCommand(g.GameID, "z0")), core.ErrInvalidRequest)

	pieces := p.Execute(NewGetPiecesCommand(g.GameID)).Data.(core.PiecesResponse)
	assert.Equal(t, []string{"a3", "c3", "e3", "g3"}, pieces.Pieces)

	b := p.Execute(NewGetBoardCommand(g.GameID)).Data.(core.BoardResponse)
	assert.Equal(t, board.StartingPosition, b.Position)
	assert.Contains(t, b.Board, "a b c d e f g h")
}

func TestSeatsRestrictMoves(t *testing.T) {
	p := newTestProcessor(t)
	g := createGame(t, p, "")

	requireError(t, p.Execute(NewJoinGameCommand(g.GameID, "", core.JoinGameRequest{Color: "r"})), core.ErrUnauthorized)

	resp := p.Execute(NewJoinGameCommand(g.GameID, "alice", core.JoinGameRequest{Color: "red"}))
	require.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Data.(core.GameResponse).Players.Red.UserID)

	requireError(t, p.Execute(NewJoinGameCommand(g.GameID, "bob", core.JoinGameRequest{Color: "r"})), core.ErrSlotTaken)

	requireError(t, p.Execute(NewMakeMoveCommand(g.GameID, "bob", core.MoveRequest{Move: "a3b4"})), core.ErrUnauthorized)
	require.True(t, p.Execute(NewMakeMoveCommand(g.GameID, "alice", core.MoveRequest{Move: "a3b4"})).Success)

	// Black's seat is open, so anyone may answer
	require.True(t, p.Execute(NewMakeMoveCommand(g.GameID, "", core.MoveRequest{Move: "b6a5"})).Success)

	requireError(t, p.Execute(NewUndoMoveCommand(g.GameID, "bob", core.UndoRequest{Count: 1})), core.ErrUnauthorized)
	resp = p.Execute(NewUndoMoveCommand(g.GameID, "alice", core.UndoRequest{Count: 2}))
	require.True(t, resp.Success)
	assert.Empty(t, resp.Data.(core.GameResponse).Moves)

	requireError(t, p.Execute(NewDeleteGameCommand(g.GameID, "")), core.ErrUnauthorized)
	require.True(t, p.Execute(NewDeleteGameCommand(g.GameID, "alice")).Success)
	requireError(t, p.Execute(NewGetGameCommand(g.GameID)), core.ErrGameNotFound)
}

func TestUndoTooFar(t *testing.T) {
	p := newTestProcessor(t)
	g := createGame(t, p, "")
	requireError(t, p.Execute(NewUndoMoveCommand(g.GameID, "", core.UndoRequest{Count: 1})), core.ErrInvalidRequest)
}
