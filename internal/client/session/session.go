// Package session holds the interactive client's mutable state: server,
// credentials, current game and the piece-selection machine bound to it.
package session

import (
	"fmt"

	"checkers/internal/client/api"
	"checkers/internal/client/display"
	"checkers/internal/client/selection"
	"checkers/internal/server/board"
	"checkers/internal/server/engine"
)

type Session struct {
	APIBaseURL       string
	Client           *api.Client
	Verbose          bool
	Theme            display.Theme
	CurrentGame      string
	CurrentUser      string
	AuthToken        string
	Username         string
	LastMoveCount    int
	CurrentGameState *api.GameResponse
	PlayerColor      string

	machine *selection.Machine
}

func New(baseURL string) *Session {
	s := &Session{
		APIBaseURL: baseURL,
		Client:     api.New(baseURL),
		Theme:      display.ThemeOff,
	}
	s.machine = selection.New(remoteSource{s: s})
	return s
}

func (s *Session) GetAPIBaseURL() string  { return s.APIBaseURL }
func (s *Session) SetAPIBaseURL(u string) { s.APIBaseURL = u }
func (s *Session) GetCurrentGame() string { return s.CurrentGame }
func (s *Session) GetCurrentUser() string { return s.CurrentUser }
func (s *Session) GetAuthToken() string   { return s.AuthToken }
func (s *Session) GetUsername() string    { return s.Username }
func (s *Session) GetLastMoveCount() int  { return s.LastMoveCount }
func (s *Session) GetClient() *api.Client { return s.Client }
func (s *Session) IsVerbose() bool        { return s.Verbose }
func (s *Session) GetPlayerColor() string { return s.PlayerColor }
func (s *Session) GetTheme() display.Theme {
	return s.Theme
}

func (s *Session) SetCurrentUser(id string)      { s.CurrentUser = id }
func (s *Session) SetAuthToken(token string)     { s.AuthToken = token }
func (s *Session) SetUsername(name string)       { s.Username = name }
func (s *Session) SetLastMoveCount(n int)        { s.LastMoveCount = n }
func (s *Session) SetPlayerColor(c string)       { s.PlayerColor = c }
func (s *Session) SetTheme(theme display.Theme)  { s.Theme = theme }
func (s *Session) Selection() *selection.Machine { return s.machine }

// SetCurrentGame switches games and drops any selection from the old one
func (s *Session) SetCurrentGame(id string) {
	if id != s.CurrentGame {
		s.machine.Reset()
		s.CurrentGameState = nil
		s.PlayerColor = ""
	}
	s.CurrentGame = id
}

func (s *Session) GetGameState() *api.GameResponse {
	return s.CurrentGameState
}

// SetGameState records the latest server view and keeps the selection
// machine in step with it
func (s *Session) SetGameState(resp *api.GameResponse) {
	s.CurrentGameState = resp
	if resp == nil {
		s.machine.Reset()
		return
	}
	s.LastMoveCount = len(resp.Moves)

	if resp.Players.Red != nil && resp.Players.Red.UserID != "" && resp.Players.Red.UserID == s.CurrentUser {
		s.PlayerColor = "r"
	} else if resp.Players.Black != nil && resp.Players.Black.UserID != "" && resp.Players.Black.UserID == s.CurrentUser {
		s.PlayerColor = "b"
	}
}

// Advance moves the selection machine past a server-applied move
func (s *Session) Advance(resp *api.GameResponse) error {
	turnType, lastMoved := ContinuationOf(resp)
	return s.machine.Advance(turnType, lastMoved)
}

// ContinuationOf extracts the turn type and continuing square of a response
func ContinuationOf(resp *api.GameResponse) (engine.TurnType, engine.Position) {
	if resp == nil || resp.TurnType != engine.TurnContinue.String() {
		return engine.TurnNext, engine.NoPosition
	}
	pos, err := board.ParseSquare(resp.ContinueFrom)
	if err != nil {
		return engine.TurnNext, engine.NoPosition
	}
	return engine.TurnContinue, pos
}

// remoteSource answers selection queries from the server
type remoteSource struct {
	s *Session
}

func (r remoteSource) Options(pos engine.Position) (selection.Options, error) {
	if r.s.CurrentGame == "" {
		return selection.Options{}, fmt.Errorf("no current game")
	}

	c := r.s.Client
	quiet := c.Quiet
	c.Quiet = !r.s.Verbose
	defer func() { c.Quiet = quiet }()

	resp, err := c.GetMoves(r.s.CurrentGame, board.SquareName(pos))
	if err != nil {
		return selection.Options{}, err
	}

	opts := selection.Options{Selectable: resp.Selectable}
	if opts.Captures, err = parseSquares(resp.Captures); err != nil {
		return selection.Options{}, err
	}
	if opts.Moves, err = parseSquares(resp.Moves); err != nil {
		return selection.Options{}, err
	}
	return opts, nil
}

func parseSquares(names []string) ([]engine.Position, error) {
	out := make([]engine.Position, 0, len(names))
	for _, n := range names {
		pos, err := board.ParseSquare(n)
		if err != nil {
			return nil, fmt.Errorf("server sent bad square %q: %w", n, err)
		}
		out = append(out, pos)
	}
	return out, nil
}
