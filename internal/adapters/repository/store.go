// Package repository keeps analysis results in memory.
package repository

import (
	"context"
	"time"

	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/language"
)

// Status is the lifecycle state of an analysis.
type Status string

// Analysis states. A result leaves pending exactly once.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusInvalid Status = "invalid"
	StatusFailed  Status = "failed"
)

// Result is one analysis as seen by readers. Chat is nil until the
// analysis finishes and is never mutated afterwards.
type Result struct {
	ID          string
	Digest      string
	Status      Status
	Chat        *chat.Chat
	Language    language.Result
	Err         error
	SubmittedAt time.Time
	CompletedAt time.Time
}

// Finished reports whether the result left the pending state.
func (r Result) Finished() bool { return r.Status != StatusPending }

// Store provides read/write access to analysis results.
type Store interface {
	// Create registers a pending analysis. Returns ErrExists for a known id.
	Create(ctx context.Context, id, digest string, submittedAt time.Time) error

	// Complete publishes a finished chat. Invalid chats end up StatusInvalid.
	Complete(ctx context.Context, id string, c *chat.Chat, lang language.Result) error

	// Fail marks an analysis that could not run.
	Fail(ctx context.Context, id string, err error) error

	// Get returns the result for id or ErrNotFound.
	Get(ctx context.Context, id string) (Result, error)

	// Delete forgets id. Unknown ids are ignored.
	Delete(ctx context.Context, id string)

	// Count returns the number of stored results.
	Count(ctx context.Context) int
}
