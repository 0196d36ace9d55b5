package display

import "fmt"

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Bold    = "\033[1m"
)

// Theme selects square backgrounds for board rendering
type Theme string

const (
	ThemeOff   Theme = "off"
	ThemeBrown Theme = "brown"
	ThemeGreen Theme = "green"
	ThemeGray  Theme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	black   string
}

var themes = map[Theme]themeColors{
	ThemeOff:   {black: Blue},
	ThemeBrown: {lightBg: "\033[48;5;230m", darkBg: "\033[48;5;94m", black: "\033[30m"},
	ThemeGreen: {lightBg: "\033[48;5;157m", darkBg: "\033[48;5;22m", black: "\033[30m"},
	ThemeGray:  {lightBg: "\033[48;5;251m", darkBg: "\033[48;5;240m", black: "\033[30m"},
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if _, ok := themes[t]; !ok {
		return "", fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", s)
	}
	return t, nil
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + " > " + Reset
}
