package apperror

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid match configuration")
	ErrCorruptState         = errors.New("corrupt match state")
	ErrMatchNotFound        = errors.New("match not found")
	ErrInvalidCell          = errors.New("invalid cell index")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrEmptySessionID       = errors.New("session id is empty")
)
