package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound = errors.New("analysis not found")
	ErrExists   = errors.New("analysis already exists")
	ErrFinished = errors.New("analysis already finished")
	ErrNilChat  = errors.New("nil chat")
)
