package service

import (
	"fmt"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/game"
	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CanCreateGame reports whether the live game cap leaves room for another game
func (s *Service) CanCreateGame() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits.MaxGames <= 0 || len(s.games) < s.limits.MaxGames
}

// CreateGame registers a new game starting from initial
func (s *Service) CreateGame(id string, redPlayer, blackPlayer *core.Player, initial engine.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}
	if s.limits.MaxGames > 0 && len(s.games) >= s.limits.MaxGames {
		return ErrTooManyGames
	}

	// A supplied position may already be decided
	state := core.StateOngoing
	if over, winner := engine.Outcome(initial); over {
		initial.GameOver = true
		state = core.WinState(winner)
	}

	g := game.New(initial, redPlayer, blackPlayer)
	g.SetState(state)
	s.games[id] = g
	log.Debug().Str("game", id).Str("position", g.InitialPosition()).Msg("game created")

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          id,
			InitialPosition: g.InitialPosition(),
			RedPlayerID:     redPlayer.ID,
			BlackPlayerID:   blackPlayer.ID,
			StartTimeUTC:    time.Now().UTC(),
		})
	}
	return nil
}

// GetGame returns the live game. Callers that read more than one field
// should use ViewGame to hold the read lock.
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// ViewGame runs fn with the game under the registry read lock
func (s *Service) ViewGame(gameID string, fn func(*game.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return fn(g)
}

// MoveCount returns the number of moves played in the game
func (s *Service) MoveCount(gameID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.MoveCount(), nil
}

func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// ApplyMove validates and plays from→to on the current position, records the
// snapshot and decides whether the game has ended. A claimed seat may only be
// played by its owner. The whole transition, seat check included, runs under
// the write lock so concurrent requests cannot interleave.
func (s *Service) ApplyMove(gameID, userID string, from, to engine.Position) (*game.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if g.State().IsOver() {
		return nil, engine.ErrGameOver
	}

	before := g.CurrentState()
	next, err := engine.Play(before, from, to)
	if err != nil {
		return nil, err
	}
	if owner := g.GetSlotOwner(before.Turn); owner != "" && owner != userID {
		return nil, fmt.Errorf("%w: %s", ErrNotSeatOwner, before.Turn.Name())
	}

	mover, _ := before.Board.At(from).Piece()
	crowned, _ := next.Board.At(to).Piece()
	notation := board.FormatMove(from, to)

	state := core.StateOngoing
	if over, winner := engine.Outcome(next); over {
		next.GameOver = true
		state = core.WinState(winner)
	}

	g.AddSnapshot(next, notation)
	g.SetState(state)

	result := &game.MoveResult{
		Move:        notation,
		PlayerColor: mover.Color,
		GameState:   state,
		Capture:     engine.IsCapture(from, to),
		Promotion:   !mover.Promoted && crowned.Promoted,
	}
	g.SetLastResult(result)

	moveCount := g.MoveCount()
	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:            gameID,
			MoveNumber:        moveCount,
			MoveNotation:      notation,
			PositionAfterMove: g.CurrentPosition(),
			PlayerColor:       mover.Color.String(),
			MoveTimeUTC:       time.Now().UTC(),
		})
	}

	if state.IsOver() {
		log.Info().Str("game", gameID).Str("result", state.String()).Int("moves", moveCount).Msg("game over")
	}
	return result, nil
}

// UndoMoves rewinds count moves and truncates the stored move log to match
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err := g.UndoMoves(count); err != nil {
		return err
	}

	moveCount := g.MoveCount()
	s.waiter.NotifyGame(gameID, moveCount)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, moveCount)
	}
	return nil
}

// ClaimGameSlot binds userID to a seat
func (s *Service) ClaimGameSlot(gameID string, color core.Color, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.ClaimSlot(color, userID)
}

func (s *Service) GetSlotOwner(gameID string, color core.Color) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g.GetSlotOwner(color), nil
}

// DeleteGame drops the game and releases its long-poll waiters
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
	return nil
}
