package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "checkers.db"), true)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())
	t.Cleanup(func() { store.Close() })
	return store
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestGameAndMoveRecords(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	s.RecordNewGame(GameRecord{
		GameID:          "g1",
		InitialPosition: "start",
		RedPlayerID:     "p-red",
		BlackPlayerID:   "p-black",
		StartTimeUTC:    now,
	})
	for i, mv := range []string{"a3b4", "b6a5", "b4c5"} {
		color := "r"
		if i%2 == 1 {
			color = "b"
		}
		s.RecordMove(MoveRecord{
			GameID:            "g1",
			MoveNumber:        i + 1,
			MoveNotation:      mv,
			PositionAfterMove: "pos",
			PlayerColor:       color,
			MoveTimeUTC:       now,
		})
	}
	flush(t, s)

	games, err := s.QueryGames("", "p-black")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "p-red", games[0].RedPlayerID)

	moves, err := s.QueryMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 3)
	assert.Equal(t, "b6a5", moves[1].MoveNotation)
	assert.Equal(t, "b", moves[1].PlayerColor)

	s.DeleteUndoneMoves("g1", 1)
	flush(t, s)

	moves, err = s.QueryMoves("g1")
	require.NoError(t, err)
	assert.Len(t, moves, 1)
	assert.True(t, s.IsHealthy())
}

func TestFailedWriteDegradesStore(t *testing.T) {
	s := newTestStore(t)

	// Move for an unknown game violates the foreign key
	s.RecordMove(MoveRecord{GameID: "missing", MoveNumber: 1, MoveNotation: "a3b4", PositionAfterMove: "x", PlayerColor: "r"})
	flush(t, s)

	assert.False(t, s.IsHealthy())

	// Further writes are dropped silently
	s.RecordNewGame(GameRecord{GameID: "g2", InitialPosition: "x", RedPlayerID: "a", BlackPlayerID: "b"})
	games, err := s.QueryGames("*", "*")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)

	rec := UserRecord{UserID: "u1", Username: "Alice", Email: "alice@example.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(rec))
	require.NoError(t, s.CreateUser(UserRecord{UserID: "u2", Username: "bob", PasswordHash: "h", CreatedAt: time.Now().UTC()}))
	require.NoError(t, s.CreateUser(UserRecord{UserID: "u3", Username: "carol", PasswordHash: "h", CreatedAt: time.Now().UTC()}))

	assert.ErrorIs(t, s.CreateUser(UserRecord{UserID: "u4", Username: "alice", PasswordHash: "h"}), ErrUserExists)
	assert.ErrorIs(t, s.CreateUser(UserRecord{UserID: "u4", Username: "dave", Email: "ALICE@example.com", PasswordHash: "h"}), ErrUserExists)

	user, err := s.GetUserByUsername("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Nil(t, user.LastLoginAt)

	require.NoError(t, s.UpdateUserLastLogin("u1", time.Now().UTC()))
	require.NoError(t, s.UpdateUserEmail("u1", "a@example.com"))
	user, err = s.GetUserByID("u1")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "a@example.com", user.Email)

	n, err := s.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.DeleteUserByID("u2"))
	assert.ErrorIs(t, s.DeleteUserByID("u2"), ErrNotFound)
	_, err = s.GetUserByID("u2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateUserPassword("nope", "h"), ErrNotFound)

	users, err := s.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	require.NoError(t, s.CreateUser(UserRecord{UserID: "u1", Username: "alice", PasswordHash: "h", CreatedAt: now}))

	require.NoError(t, s.CreateSession(SessionRecord{SessionID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	valid, err := s.IsSessionValid("s1")
	require.NoError(t, err)
	assert.True(t, valid)

	// A new login replaces the old session
	require.NoError(t, s.CreateSession(SessionRecord{SessionID: "s2", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}))
	_, err = s.GetSession("s1")
	assert.ErrorIs(t, err, ErrNotFound)

	valid, err = s.IsSessionValid("s2")
	require.NoError(t, err)
	assert.False(t, valid)

	removed, err := s.DeleteExpiredSessions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, s.CreateSession(SessionRecord{SessionID: "s3", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.DeleteUserByID("u1"))
	_, err = s.GetSession("s3")
	assert.ErrorIs(t, err, ErrNotFound)
}
