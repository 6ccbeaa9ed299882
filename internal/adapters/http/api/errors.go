package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrBackpressure     = errors.New("backpressure")
	ErrUnsupportedMedia = errors.New("transcript must be plain text")
	ErrTooLarge         = errors.New("transcript too large")
	ErrEmptyTranscript  = errors.New("empty transcript")
)

// wrapKind tags err with the operation and kind so errors.Is matches kind.
func wrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}
