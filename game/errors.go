package game

import "errors"

// Rejection reasons returned by the state machine. All of them leave the
// game state untouched; callers are expected to surface them to whoever
// submitted the action and carry on.
var (
	ErrGameOver     = errors.New("game is already over")
	ErrInvalidTurn  = errors.New("action submitted for the wrong role")
	ErrInvalidHint  = errors.New("invalid hint")
	ErrInvalidGuess = errors.New("invalid guess")
	ErrCardNotFound = errors.New("card not found")
)
