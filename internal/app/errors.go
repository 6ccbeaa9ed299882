package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrEmptyTranscript = errors.New("empty transcript")
	ErrBackpressure    = errors.New("analysis queue full")
	ErrPending         = errors.New("analysis pending")
	ErrInvalidChat     = errors.New("chat invalid")
	ErrFailed          = errors.New("analysis failed")
	ErrInvalidLimit    = errors.New("invalid senders limit")
)
