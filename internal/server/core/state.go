package core

type State int

const (
	StateOngoing State = iota
	StateRedWins
	StateBlackWins
)

func (s State) String() string {
	switch s {
	case StateRedWins:
		return "red wins"
	case StateBlackWins:
		return "black wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the state is terminal
func (s State) IsOver() bool {
	return s == StateRedWins || s == StateBlackWins
}

// WinState maps the winning colour to its terminal state
func WinState(winner Color) State {
	if winner == ColorRed {
		return StateRedWins
	}
	return StateBlackWins
}
