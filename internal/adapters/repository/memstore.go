package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/language"
	"github.com/okian/chatrank/pkg/metrics"
)

const defaultCapacity = 1000

// MemoryStore is a bounded Store. When full, the oldest result is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*Result
	order    []string // insertion order, oldest first
	capacity int
	now      func() time.Time
}

// NewMemoryStore constructs a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]*Result, s.capacity)
	s.order = make([]string, 0, s.capacity)

	metrics.UpdateStoreCapacity(s.capacity)
	metrics.UpdateStoreRecords(0)
	return s
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, id, digest string, submittedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; ok {
		metrics.RecordErrorByComponent("repository", "exists")
		return ErrExists
	}
	for len(s.byID) >= s.capacity {
		s.evictOldest()
	}

	s.byID[id] = &Result{ID: id, Digest: digest, Status: StatusPending, SubmittedAt: submittedAt}
	s.order = append(s.order, id)
	metrics.UpdateStoreRecords(len(s.byID))
	return nil
}

// Complete implements Store.
func (s *MemoryStore) Complete(ctx context.Context, id string, c *chat.Chat, lang language.Result) error {
	if c == nil {
		return ErrNilChat
	}
	return s.finish(id, func(r *Result) {
		r.Chat = c
		r.Language = lang
		r.Status = StatusDone
		if !c.Valid() {
			r.Status = StatusInvalid
			r.Err = c.Err()
		}
	})
}

// Fail implements Store.
func (s *MemoryStore) Fail(ctx context.Context, id string, err error) error {
	return s.finish(id, func(r *Result) {
		r.Status = StatusFailed
		r.Err = err
	})
}

func (s *MemoryStore) finish(id string, apply func(*Result)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	if cur.Finished() {
		metrics.RecordErrorByComponent("repository", "already_finished")
		return ErrFinished
	}

	// readers hold copies of the previous value; publish a fresh one
	next := *cur
	apply(&next)
	next.CompletedAt = s.now()
	s.byID[id] = &next
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return Result{}, ErrNotFound
	}
	return *r, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateStoreRecords(len(s.byID))
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Capacity returns the maximum number of stored results.
func (s *MemoryStore) Capacity() int { return s.capacity }

// evictOldest must be called with s.mu held.
func (s *MemoryStore) evictOldest() {
	if len(s.order) == 0 {
		return
	}
	oldest := s.order[0]
	s.order = s.order[1:]
	delete(s.byID, oldest)
	metrics.RecordStoreEviction()
}
