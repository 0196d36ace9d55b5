package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := out
	out = buf
	t.Cleanup(func() { out = prev })
	return buf
}

func TestRunRequiresSubcommand(t *testing.T) {
	assert.Error(t, Run(nil))
	assert.Error(t, Run([]string{"bogus"}))
	assert.Error(t, Run([]string{"user"}))
	assert.Error(t, Run([]string{"init"}), "missing -path")
}

func TestUserLifecycle(t *testing.T) {
	buf := capture(t)
	path := filepath.Join(t.TempDir(), "checkers.db")

	require.NoError(t, Run([]string{"init", "-path", path}))
	require.NoError(t, Run([]string{"user", "add", "-path", path, "-username", "Alice", "-password", "correct-horse"}))
	assert.Contains(t, buf.String(), "Username: alice")

	err := Run([]string{"user", "add", "-path", path, "-username", "alice", "-password", "another-pass"})
	assert.ErrorContains(t, err, "already registered")

	err = Run([]string{"user", "add", "-path", path, "-username", "bob", "-password", "short"})
	assert.ErrorContains(t, err, "at least 8")

	err = Run([]string{"user", "add", "-path", path, "-username", "bob", "-password", "long-enough", "-hash", "x"})
	assert.Error(t, err)

	require.NoError(t, Run([]string{"user", "set-email", "-path", path, "-username", "alice", "-email", "A@Example.com"}))

	buf.Reset()
	require.NoError(t, Run([]string{"user", "list", "-path", path}))
	assert.Contains(t, buf.String(), "a@example.com")
	assert.Contains(t, buf.String(), "Total users: 1")

	require.NoError(t, Run([]string{"user", "set-username", "-path", path, "-current", "alice", "-new", "alicia"}))
	assert.ErrorContains(t, Run([]string{"user", "delete", "-path", path, "-username", "alice"}), "not found")
	require.NoError(t, Run([]string{"user", "delete", "-path", path, "-username", "alicia"}))

	buf.Reset()
	require.NoError(t, Run([]string{"user", "list", "-path", path}))
	assert.Contains(t, buf.String(), "No users found")
}

func TestQueryEmpty(t *testing.T) {
	buf := capture(t)
	path := filepath.Join(t.TempDir(), "checkers.db")

	require.NoError(t, Run([]string{"init", "-path", path}))
	require.NoError(t, Run([]string{"query", "-path", path, "-gameId", "*", "-moves"}))
	assert.Contains(t, buf.String(), "No games found")
}
