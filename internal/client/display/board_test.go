package display

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"checkers/internal/server/board"
	"checkers/internal/server/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func render(hl Highlight, theme Theme) []string {
	var buf bytes.Buffer
	RenderBoard(&buf, board.ToASCII(engine.NewGame()), hl, theme)
	return strings.Split(strings.TrimRight(ansi.ReplaceAllString(buf.String(), ""), "\n"), "\n")
}

func TestRenderBoardKeepsLayout(t *testing.T) {
	lines := render(NoHighlight, ThemeOff)
	require.Len(t, lines, 10)
	assert.Equal(t, "  a b c d e f g h", lines[0])
	assert.Equal(t, "8   b   b   b   b 8", lines[1])
	assert.Equal(t, "5 .   .   .   .   5", lines[4])
	assert.Equal(t, "3 r   r   r   r   3", lines[6])
	assert.Equal(t, "  a b c d e f g h", lines[9])
}

func TestRenderBoardMarksTargets(t *testing.T) {
	hl := Highlight{
		Selected: engine.Position{X: 2, Y: 5},
		Targets:  []engine.Position{{X: 1, Y: 4}, {X: 3, Y: 4}},
	}
	for _, theme := range []Theme{ThemeOff, ThemeBrown} {
		lines := render(hl, theme)
		assert.Equal(t, "4   *   *   .   . 4", lines[5], "theme %s", theme)
		assert.Equal(t, "3 r   r   r   r   3", lines[6], "selection only changes colour")
	}
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme("green")
	require.NoError(t, err)
	assert.Equal(t, ThemeGreen, theme)

	_, err = ParseTheme("purple")
	assert.Error(t, err)
}

func TestMoveHistory(t *testing.T) {
	assert.Equal(t, "", MoveHistory(nil))
	assert.Equal(t, "1.c3d4 2.f6e5", MoveHistory([]string{"c3d4", "f6e5"}))
}
