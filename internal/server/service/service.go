// Package service owns the live games, the long-poll registry, user accounts
// and sessions. Storage is optional; without it the service runs purely in
// memory and account features are unavailable.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkers/internal/server/game"
	"checkers/internal/server/storage"

	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrTooManyGames       = errors.New("game limit reached")
	ErrStorageDisabled    = errors.New("storage disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserLimit          = errors.New("user limit reached")
	ErrSessionInvalid     = errors.New("session expired or revoked")
	ErrNotSeatOwner       = errors.New("seat belongs to another player")
)

// Limits caps resource usage
type Limits struct {
	MaxGames    int
	MaxUsers    int
	SessionTTL  time.Duration
	WaitTimeout time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		MaxGames:    100,
		MaxUsers:    100,
		SessionTTL:  7 * 24 * time.Hour,
		WaitTimeout: WaitTimeout,
	}
}

type Service struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	limits    Limits
	waiter    *WaitRegistry
}

// New creates the service. store may be nil.
func New(store *storage.Store, jwtSecret []byte, limits Limits) *Service {
	return &Service{
		games:     make(map[string]*game.Game),
		store:     store,
		jwtSecret: jwtSecret,
		limits:    limits,
		waiter:    NewWaitRegistry(limits.WaitTimeout),
	}
}

// GetStorageHealth returns "ok", "degraded" or "disabled"
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait parks a long-poll request on gameID
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// Shutdown releases waiters, drops live games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	s.games = make(map[string]*game.Game)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob purges expired sessions every interval until ctx is done
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if s.store == nil {
		return
	}
	deleted, err := s.store.DeleteExpiredSessions()
	if err != nil {
		log.Warn().Err(err).Msg("cleanup: failed to delete expired sessions")
		return
	}
	if deleted > 0 {
		log.Info().Int64("sessions", deleted).Msg("cleanup: deleted expired sessions")
	}
}
