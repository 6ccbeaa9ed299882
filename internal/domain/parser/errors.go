package parser

import (
	"errors"
	"fmt"
)

// Sentinel kinds for parse failures.
var (
	ErrHeader    = errors.New("malformed header")
	ErrNoSender  = errors.New("no sender")
	ErrTimestamp = errors.New("unparsable timestamp")
)

// ParseError reports a block that could not be turned into a message.
type ParseError struct {
	Block string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse block %q: %v", firstLine(e.Block), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
