package apperror

import "errors"

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchFinished      = errors.New("match is already finished")
	ErrInvalidPlayerNames = errors.New("two distinct player names are required")
	ErrIllegalAction      = errors.New("illegal action")
)
