package game

import (
	"errors"
	"fmt"
	"sync"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

var ErrSlotTaken = errors.New("seat already taken")

type Snapshot struct {
	State         engine.GameState `json:"-"`
	Position      string           `json:"position"`
	PreviousMove  string           `json:"previousMove"`
	NextTurnColor core.Color       `json:"nextTurnColor"`
	TurnType      engine.TurnType  `json:"turnType"`
	PlayerID      string           `json:"playerId"` // ID of the player whose turn it is
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string     `json:"move"`
	PlayerColor core.Color `json:"playerColor"`
	GameState   core.State `json:"gameState"`
	Capture     bool       `json:"capture"`
	Promotion   bool       `json:"promotion"`
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Color]*core.Player
	state      core.State
	lastResult *MoveResult

	slotMu sync.Mutex
}

func New(initial engine.GameState, redPlayer, blackPlayer *core.Player) *Game {
	g := &Game{
		players: map[core.Color]*core.Player{
			core.ColorRed:   redPlayer,
			core.ColorBlack: blackPlayer,
		},
		state: core.StateOngoing,
	}
	g.snapshots = []Snapshot{g.snapshotOf(initial, "")}
	return g
}

func (g *Game) snapshotOf(state engine.GameState, move string) Snapshot {
	return Snapshot{
		State:         state,
		Position:      board.Encode(state),
		PreviousMove:  move,
		NextTurnColor: state.Turn,
		TurnType:      state.TurnType,
		PlayerID:      g.players[state.Turn].ID,
	}
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) CurrentState() engine.GameState {
	return g.CurrentSnapshot().State
}

// CurrentPosition returns the current position string
func (g *Game) CurrentPosition() string {
	return g.CurrentSnapshot().Position
}

func (g *Game) NextTurnColor() core.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color core.Color) *core.Player {
	return g.players[color]
}

// AddSnapshot records the state reached by move
func (g *Game) AddSnapshot(state engine.GameState, move string) {
	g.snapshots = append(g.snapshots, g.snapshotOf(state, move))
}

// ClaimSlot binds an authenticated user to a colour. Claiming a seat already
// held by the same user succeeds; a seat held by someone else does not.
func (g *Game) ClaimSlot(color core.Color, userID string) error {
	g.slotMu.Lock()
	defer g.slotMu.Unlock()

	player, ok := g.players[color]
	if !ok || player == nil {
		return fmt.Errorf("invalid color: %v", color)
	}
	if player.UserID != "" && player.UserID != userID {
		return fmt.Errorf("%w: %s", ErrSlotTaken, color.Name())
	}
	player.UserID = userID
	return nil
}

// GetSlotOwner returns the user bound to color, or "" when the seat is open
func (g *Game) GetSlotOwner(color core.Color) string {
	g.slotMu.Lock()
	defer g.slotMu.Unlock()

	if player, ok := g.players[color]; ok && player != nil {
		return player.UserID
	}
	return ""
}

// UndoMoves drops the last count snapshots. Each jump of a capture chain is a move.
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.state = core.StateOngoing
	if current := g.CurrentState(); current.GameOver {
		if over, winner := engine.Outcome(current); over {
			g.state = core.WinState(winner)
		}
	}
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

func (g *Game) InitialPosition() string {
	if len(g.snapshots) > 0 {
		return g.snapshots[0].Position
	}
	return board.StartingPosition
}
