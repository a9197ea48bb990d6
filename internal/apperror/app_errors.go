package apperror

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrRoomNotActive      = errors.New("room is not active")
	ErrInvalidCode        = errors.New("invalid code")
	ErrUnknownParticipant = errors.New("unknown participant")
)
