package cli

import "errors"

// Sentinel kinds for command errors.
var (
	ErrInvalidChat = errors.New("chat is not a valid export")
	ErrTooManyArgs = errors.New("at most one input file")
)
