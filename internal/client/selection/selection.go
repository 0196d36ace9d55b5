// Package selection implements the pick-a-piece, pick-a-square interaction
// used by the terminal clients. It sits outside the rules engine: a Source
// answers which squares a piece may reach, the Machine tracks what the player
// has highlighted and turns a second click into a move.
package selection

import (
	"errors"

	"checkers/internal/server/engine"
)

type Phase int

const (
	Idle Phase = iota
	PieceSelected
)

func (p Phase) String() string {
	if p == PieceSelected {
		return "piece-selected"
	}
	return "idle"
}

var (
	ErrNotSelectable = errors.New("piece cannot be selected")
	ErrLocked        = errors.New("capture chain in progress, continue with the highlighted piece")
)

// Options describes one square as seen by the side to move
type Options struct {
	Selectable bool
	Captures   []engine.Position
	Moves      []engine.Position
}

// Source reports the options of a square in the current position
type Source interface {
	Options(pos engine.Position) (Options, error)
}

type Move struct {
	From engine.Position
	To   engine.Position
}

type Machine struct {
	src     Source
	phase   Phase
	from    engine.Position
	targets []engine.Position
	locked  bool
}

func New(src Source) *Machine {
	return &Machine{src: src, from: engine.NoPosition}
}

func (m *Machine) Phase() Phase {
	return m.phase
}

// Selected returns the highlighted piece, if any
func (m *Machine) Selected() (engine.Position, bool) {
	return m.from, m.phase == PieceSelected
}

// Targets returns the highlighted destinations, captures first
func (m *Machine) Targets() []engine.Position {
	return append([]engine.Position(nil), m.targets...)
}

// Locked reports whether a capture chain pins the selection
func (m *Machine) Locked() bool {
	return m.locked
}

// Select highlights the piece on pos. A rejected selection leaves the
// current one in place.
func (m *Machine) Select(pos engine.Position) error {
	if m.locked {
		if pos == m.from {
			return nil
		}
		return ErrLocked
	}

	opts, err := m.src.Options(pos)
	if err != nil {
		return err
	}
	targets := append(append([]engine.Position{}, opts.Captures...), opts.Moves...)
	if !opts.Selectable || len(targets) == 0 {
		return ErrNotSelectable
	}

	m.phase = PieceSelected
	m.from = pos
	m.targets = targets
	return nil
}

// Choose returns the move to pos when pos is a highlighted destination.
// The machine does not change until Advance reports the outcome.
func (m *Machine) Choose(pos engine.Position) (Move, bool) {
	if m.phase != PieceSelected {
		return Move{}, false
	}
	for _, t := range m.targets {
		if t == pos {
			return Move{From: m.from, To: pos}, true
		}
	}
	return Move{}, false
}

// Click combines Choose and Select: a highlighted destination yields a move,
// anything else is treated as a new selection.
func (m *Machine) Click(pos engine.Position) (Move, bool, error) {
	if mv, ok := m.Choose(pos); ok {
		return mv, true, nil
	}
	return Move{}, false, m.Select(pos)
}

// Advance updates the machine after a move was applied. When the same side
// must keep capturing, the continuing piece is reselected with only its
// captures; otherwise the machine returns to Idle.
func (m *Machine) Advance(turnType engine.TurnType, lastMoved engine.Position) error {
	m.Reset()
	if turnType != engine.TurnContinue {
		return nil
	}

	opts, err := m.src.Options(lastMoved)
	if err != nil {
		return err
	}
	if len(opts.Captures) == 0 {
		return nil
	}
	m.phase = PieceSelected
	m.from = lastMoved
	m.targets = append([]engine.Position(nil), opts.Captures...)
	m.locked = true
	return nil
}

// Reset drops any selection, including a pinned one
func (m *Machine) Reset() {
	m.phase = Idle
	m.from = engine.NoPosition
	m.targets = nil
	m.locked = false
}

// StateSource answers Options from a locally held game state
type StateSource func() engine.GameState

func (s StateSource) Options(pos engine.Position) (Options, error) {
	state := s()
	piece, ok := state.Board.At(pos).Piece()
	if !ok || state.GameOver {
		return Options{}, nil
	}

	opts := Options{
		Captures: engine.CaptureMoves(piece, state.Board),
		Moves:    engine.NonCaptureMoves(piece, state.Board),
	}
	if state.TurnType == engine.TurnContinue {
		opts.Moves = nil
		if pos != state.LastMoved {
			opts.Captures = nil
		}
	}
	opts.Selectable = piece.Color == state.Turn && len(opts.Captures)+len(opts.Moves) > 0
	return opts, nil
}
