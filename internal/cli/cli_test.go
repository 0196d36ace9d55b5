package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/service"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func play(t *testing.T, script ...string) string {
	t.Helper()
	svc := service.New(nil, nil, service.DefaultLimits())
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	view := New(strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	NewHandler(svc, view).Run()
	return ansi.ReplaceAllString(out.String(), "")
}

func TestParseCommand(t *testing.T) {
	cases := map[string]CommandType{
		"new":         CmdNew,
		"resume x y":  CmdResume,
		"c3":          CmdSelect,
		"c3d4":        CmdMove,
		"undo 2":      CmdUndo,
		"color green": CmdColor,
		"?":           CmdHelp,
		"exit":        CmdQuit,
		"pieces":      CmdPieces,
	}
	for line, want := range cases {
		assert.Equal(t, want, parseCommand(line).Type, line)
	}
	assert.Equal(t, "x y", parseCommand("resume x y").Raw)
}

func TestSelectMoveUndo(t *testing.T) {
	out := play(t, "new", "c3", "d4", "pieces", "undo", "history", "quit")

	assert.Contains(t, out, "Game started.")
	assert.Contains(t, out, "4   *   *   .   . 4")
	assert.Contains(t, out, "[r c3]> ")
	assert.Contains(t, out, "Red: c3d4")
	assert.Contains(t, out, "Selectable (b): b6 d6 f6 h6")
	assert.Contains(t, out, "1 move(s) undone")
	assert.Contains(t, out, "Starting position: "+board.StartingPosition)
}

func TestCaptureChainPinsSelection(t *testing.T) {
	out := play(t,
		"resume -------b/--------/---b----/--------/---b----/--r-----/--------/-------- r n -",
		"c3e5",
		"h8",
		"c7",
		"quit",
	)

	assert.Contains(t, out, "Capture again with e5")
	assert.Contains(t, out, "[r e5!]> ")
	assert.Contains(t, out, "capture chain in progress")
	assert.Contains(t, out, "Red: e5c7")
	assert.Contains(t, out, "[b]> ")
}

func TestLastCaptureEndsGame(t *testing.T) {
	out := play(t,
		"resume --------/--------/--------/--------/---b----/--r-----/--------/-------- r n -",
		"c3e5",
		"d6c5",
		"quit",
	)

	assert.Contains(t, out, "Game Over: red wins")
	assert.Contains(t, out, "[over]> ")
	assert.Contains(t, out, "game is over")
}

func TestErrorsWithoutGame(t *testing.T) {
	out := play(t, "c3d4", "undo", "resume", "resume nonsense", "color purple", "quit")

	assert.Contains(t, out, "No active game.")
	assert.Contains(t, out, "Usage: resume <position>")
	assert.Contains(t, out, "invalid position")
	assert.Contains(t, out, "invalid theme")
}
