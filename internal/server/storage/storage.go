// Package storage keeps an append-only SQLite record of accounts, sessions,
// games and moves. Game and move writes go through a single buffered writer
// and are dropped once the store degrades; account writes are synchronous.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const (
	writeQueueSize  = 1000
	shutdownTimeout = 2 * time.Second
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrUserExists = errors.New("username or email already exists")
)

type writeOp func(*sql.Tx) error

// write is a queued operation, or a flush marker when done is set
type write struct {
	op   writeOp
	done chan struct{}
}

// Store wraps the database handle and the async writer goroutine
type Store struct {
	db      *sql.DB
	path    string
	queue   chan write
	healthy atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  sync.Once
}

// NewStore opens dataSourceName and starts the writer. WAL journaling is
// enabled in dev mode so the db CLI can read while the server runs.
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	// Foreign keys are a per-connection setting, so they go in the DSN
	dsn := dataSourceName
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		db:     db,
		path:   strings.SplitN(dataSourceName, "?", 2)[0],
		queue:  make(chan write, writeQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.healthy.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// IsHealthy reports false once any async write has failed
func (s *Store) IsHealthy() bool {
	return s.healthy.Load()
}

func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drain()
			return
		case w := <-s.queue:
			s.handle(w)
		}
	}
}

func (s *Store) handle(w write) {
	if w.done != nil {
		close(w.done)
		return
	}
	if s.healthy.Load() {
		s.execute(w.op)
	}
}

// drain flushes whatever is queued at shutdown, bounded by shutdownTimeout
func (s *Store) drain() {
	deadline := time.After(shutdownTimeout)
	for {
		select {
		case w := <-s.queue:
			s.handle(w)
		case <-deadline:
			return
		default:
			return
		}
	}
}

func (s *Store) execute(op writeOp) {
	tx, err := s.db.Begin()
	if err != nil {
		s.degrade("begin transaction", err)
		return
	}
	if err := op(tx); err != nil {
		tx.Rollback()
		s.degrade("write", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.degrade("commit", err)
	}
}

func (s *Store) degrade(stage string, err error) {
	log.Error().Err(err).Str("stage", stage).Msg("storage degraded")
	s.healthy.Store(false)
}

// enqueue hands op to the writer without blocking. Writes are dropped when
// the store is degraded or the queue is full.
func (s *Store) enqueue(what string, op writeOp) {
	if !s.healthy.Load() {
		return
	}
	select {
	case s.queue <- write{op: op}:
	default:
		log.Warn().Str("op", what).Msg("storage write queue full, dropping write")
	}
}

// Flush blocks until every write queued before the call has been handled
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.queue <- write{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer, waiting up to shutdownTimeout for queued writes
func (s *Store) Close() error {
	var err error
	s.closed.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			log.Warn().Msg("storage writer shutdown timeout, some writes may be lost")
		}

		err = s.db.Close()
	})
	return err
}

// InitDB creates the schema if it does not exist
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
