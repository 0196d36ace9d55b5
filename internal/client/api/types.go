package api

import (
	"time"

	"checkers/internal/server/core"
)

// Game payloads are shared with the server
type (
	CreateGameRequest = core.CreateGameRequest
	JoinGameRequest   = core.JoinGameRequest
	MoveRequest       = core.MoveRequest
	UndoRequest       = core.UndoRequest
	PlayerConfig      = core.PlayerConfig
	GameResponse      = core.GameResponse
	BoardResponse     = core.BoardResponse
	MovesResponse     = core.MovesResponse
	PiecesResponse    = core.PiecesResponse
	ErrorResponse     = core.ErrorResponse
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID      string     `json:"userId"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
