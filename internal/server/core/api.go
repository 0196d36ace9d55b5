package core

// Request types

type CreateGameRequest struct {
	Red      PlayerConfig `json:"red"`
	Black    PlayerConfig `json:"black"`
	Position string       `json:"position,omitempty" validate:"omitempty,max=100"`
}

type JoinGameRequest struct {
	Color string `json:"color" validate:"required,oneof=r b red black"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,len=4"` // "<from><to>" in square notation, e.g. "c3d4"
}

type UndoRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=200"`
}

// Response types

type GameResponse struct {
	GameID       string          `json:"gameId"`
	Position     string          `json:"position"`
	Turn         string          `json:"turn"`     // "r" or "b"
	TurnType     string          `json:"turnType"` // "next" or "continue"
	ContinueFrom string          `json:"continueFrom,omitempty"`
	State        string          `json:"state"` // "ongoing", "red wins", "black wins"
	Moves        []string        `json:"moves"`
	Players      PlayersResponse `json:"players"`
	LastMove     *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "r" or "b"
	Capture     bool   `json:"capture,omitempty"`
	Promotion   bool   `json:"promotion,omitempty"`
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"` // ASCII representation
}

// MovesResponse lists the destinations of the piece on Square, captures first
type MovesResponse struct {
	Square     string   `json:"square"`
	Selectable bool     `json:"selectable"`
	Captures   []string `json:"captures"`
	Moves      []string `json:"moves"`
}

// PiecesResponse lists the squares holding pieces the side to move may select
type PiecesResponse struct {
	Turn     string   `json:"turn"`
	TurnType string   `json:"turnType"`
	Pieces   []string `json:"pieces"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
