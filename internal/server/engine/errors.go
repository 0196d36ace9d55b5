package engine

import "errors"

var (
	ErrGameOver          = errors.New("game is over")
	ErrInvalidCoordinate = errors.New("coordinate off the board")
	ErrNoPiece           = errors.New("no piece on source square")
	ErrNotYourPiece      = errors.New("piece belongs to the other side")
	ErrMustContinue      = errors.New("capture chain must be continued")
	ErrIllegalMove       = errors.New("illegal move")
)
