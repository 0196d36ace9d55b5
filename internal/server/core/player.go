package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
)

// Player is a seat in a game. UserID is set once an authenticated user claims the seat.
type Player struct {
	ID     string     `json:"id"`
	Color  Color      `json:"color"`
	Type   PlayerType `json:"type"`
	Name   string     `json:"name,omitempty"`
	UserID string     `json:"userId,omitempty"`
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Name string `json:"name,omitempty" validate:"omitempty,max=40"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	Red   *Player `json:"red"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
		Type:  PlayerHuman,
		Name:  config.Name,
	}
}

type Color byte

const (
	ColorRed Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "r"
	case ColorBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the capitalised colour name for display
func (c Color) Name() string {
	switch c {
	case ColorRed:
		return "Red"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

// MarshalText encodes the colour as its short form so JSON carries "r" or "b"
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts "r", "b", "red" or "black" in any case
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red":
		return ColorRed, nil
	case "b", "black":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color: %q", s)
	}
}

func OppositeColor(c Color) Color {
	if c == ColorRed {
		return ColorBlack
	}
	return ColorRed
}
