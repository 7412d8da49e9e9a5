package apperror

import "errors"

var (
	ErrIllegalMove       = errors.New("cell is already occupied")
	ErrContractViolation = errors.New("coordinates are outside the board")
	ErrInvalidPlayers    = errors.New("players must have distinct non-empty markers")
)
