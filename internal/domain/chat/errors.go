package chat

import "errors"

// Reasons a chat is invalid. They are diagnostic; the contract is Valid.
var (
	ErrStructural             = errors.New("no message header found")
	ErrExcessiveParseFailures = errors.New("too many consecutive unparsable blocks")
	ErrEmptyResult            = errors.New("no messages parsed")
)
