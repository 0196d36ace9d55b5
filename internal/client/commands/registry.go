package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/client/selection"
)

type Session interface {
	GetAPIBaseURL() string
	SetAPIBaseURL(string)
	GetCurrentGame() string
	SetCurrentGame(string)
	GetCurrentUser() string
	SetCurrentUser(string)
	GetAuthToken() string
	SetAuthToken(string)
	GetUsername() string
	SetUsername(string)
	GetLastMoveCount() int
	SetLastMoveCount(int)
	GetClient() *api.Client
	IsVerbose() bool
	GetGameState() *api.GameResponse
	SetGameState(*api.GameResponse)
	SetPlayerColor(string)
	GetPlayerColor() string
	GetTheme() display.Theme
	SetTheme(display.Theme)
	Selection() *selection.Machine
	Advance(*api.GameResponse) error
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(Session, []string) error
}

type Registry struct {
	session  Session
	commands map[string]*Command
	out      io.Writer
	in       io.Reader
}

func NewRegistry(session Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
		out:      os.Stdout,
		in:       os.Stdin,
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     r.exitHandler,
	})

	return r
}

// SetIO redirects command input and output
func (r *Registry) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

func (r *Registry) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Registry) Execute(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		r.printf("%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		r.printf("Type 'help' for available commands\n")
		return
	}

	c := r.session.GetClient()
	c.SetVerbose(r.session.IsVerbose())
	c.Out = r.out

	if err := cmd.Handler(r.session, parts[1:]); err != nil {
		r.printf("%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
}

func (r *Registry) helpHandler(s Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		r.printf("\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			r.printf("Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		r.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	r.printf("\n%sAvailable Commands:%s\n\n", display.Cyan, display.Reset)

	groups := []struct {
		title string
		names []string
	}{
		{"Game Commands", []string{"new", "join", "sit", "click", "move", "pieces", "targets", "undo", "show", "state", "delete", "poll"}},
		{"Auth Commands", []string{"register", "login", "logout", "whoami"}},
		{"Utility Commands", []string{"health", "url", "raw", "theme", "clear", "help", "exit"}},
	}
	for i, g := range groups {
		if i > 0 {
			r.printf("\n")
		}
		r.printf("%s%s:%s\n", display.Yellow, g.title, display.Reset)
		for _, name := range g.names {
			cmd, ok := r.commands[name]
			if !ok {
				continue
			}
			short := ""
			if cmd.ShortName != "" {
				short = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			r.printf("  %s%-10s %s\n", short, cmd.Name, cmd.Description)
		}
	}

	r.printf("\nType 'help <command>' for detailed usage\n")
	r.printf("Add '-v' to any command for verbose output\n")
	return nil
}

func (r *Registry) exitHandler(s Session, args []string) error {
	r.printf("%sGoodbye!%s\n", display.Cyan, display.Reset)
	os.Exit(0)
	return nil
}
