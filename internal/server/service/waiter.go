package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout bounds a single long-poll request
const WaitTimeout = 25 * time.Second

// WaitRegistry parks long-poll requests until their game changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waiter
	timeout  time.Duration
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type waiter struct {
	moveCount int
	ch        chan struct{}
	once      sync.Once
	timer     *time.Timer
}

// fire wakes the waiting request; safe to call more than once
func (w *waiter) fire() {
	w.once.Do(func() { close(w.ch) })
}

func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*waiter),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that is closed when the game's move count
// moves away from moveCount, the game is removed, the wait times out, ctx is
// cancelled or the registry shuts down.
func (r *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	w := &waiter{moveCount: moveCount, ch: make(chan struct{})}
	w.timer = time.AfterFunc(r.timeout, w.fire)

	r.mu.Lock()
	r.waiters[gameID] = append(r.waiters[gameID], w)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		select {
		case <-ctx.Done():
		case <-w.ch:
		case <-r.shutdown:
		}
		w.timer.Stop()
		w.fire()
		r.remove(gameID, w)
	}()

	return w.ch
}

// NotifyGame wakes every waiter whose known move count differs from moveCount
func (r *WaitRegistry) NotifyGame(gameID string, moveCount int) {
	r.mu.Lock()
	list := append([]*waiter(nil), r.waiters[gameID]...)
	r.mu.Unlock()

	for _, w := range list {
		if w.moveCount != moveCount {
			w.fire()
		}
	}
}

// RemoveGame wakes and forgets all waiters of a game
func (r *WaitRegistry) RemoveGame(gameID string) {
	r.mu.Lock()
	list := r.waiters[gameID]
	delete(r.waiters, gameID)
	r.mu.Unlock()

	for _, w := range list {
		w.fire()
	}
}

// Waiting returns the number of parked requests for a game
func (r *WaitRegistry) Waiting(gameID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters[gameID])
}

// Shutdown releases all waiters and waits for their goroutines
func (r *WaitRegistry) Shutdown(timeout time.Duration) error {
	r.stopOnce.Do(func() { close(r.shutdown) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (r *WaitRegistry) remove(gameID string, target *waiter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.waiters[gameID]
	for i, w := range list {
		if w == target {
			r.waiters[gameID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(r.waiters[gameID]) == 0 {
		delete(r.waiters, gameID)
	}
}
