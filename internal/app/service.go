// Package service wires the analysis pipeline behind the HTTP API: uploads
// are deduplicated, queued, analyzed by the worker pool and published to
// the result store.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	jobqueue "github.com/okian/chatrank/internal/adapters/mq/queue"
	workerpool "github.com/okian/chatrank/internal/adapters/mq/worker"
	repository "github.com/okian/chatrank/internal/adapters/repository"
	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/dedupe"
	"github.com/okian/chatrank/internal/domain/language"
	"github.com/okian/chatrank/internal/domain/model"
	"github.com/okian/chatrank/internal/domain/ranking"
	"github.com/okian/chatrank/internal/domain/timeline"
	"github.com/okian/chatrank/internal/domain/types"
	"github.com/okian/chatrank/pkg/logger"
	"github.com/okian/chatrank/pkg/metrics"
)

// Submission is the answer to an upload.
type Submission struct {
	ID        string
	Status    repository.Status
	Duplicate bool
}

// Service implements the API dependencies for chat analysis.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.MemoryStore
	index    dedupe.Index
	queue    jobqueue.Queue
	analyzer *workerpool.ChatAnalyzer
	pool     *workerpool.Pool

	// Configuration
	workerCount            int
	queueSize              int
	dedupeSize             int
	resultCapacity         int
	maxPoints              int
	maxConsecutiveFailures int
	languageSample         int
	loc                    *time.Location

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued analyses.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many transcript digests are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithResultCapacity sets how many analysis results are kept.
func WithResultCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resultCapacity = n
		}
	}
}

// WithMaxTimelinePoints sets the timeline sample limit.
func WithMaxTimelinePoints(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithMaxConsecutiveFailures sets the tolerated run of unparsable blocks.
func WithMaxConsecutiveFailures(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConsecutiveFailures = n
		}
	}
}

// WithLanguageSample sets how many leading messages language detection reads.
func WithLanguageSample(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.languageSample = n
		}
	}
}

// WithLocation sets the location transcript timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:            runtime.NumCPU(),
		queueSize:              1024,
		dedupeSize:             10000,
		resultCapacity:         1000,
		maxPoints:              timeline.MaxPoints,
		maxConsecutiveFailures: chat.DefaultMaxConsecutiveFailures,
		languageSample:         language.DefaultSampleSize,
		loc:                    time.UTC,
		logger:                 logger.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.analyzer = workerpool.NewChatAnalyzer(s.languageSample,
		chat.WithLogger(s.logger),
		chat.WithMaxPoints(s.maxPoints),
		chat.WithMaxConsecutiveFailures(s.maxConsecutiveFailures),
		chat.WithLocation(s.loc),
	)
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting chat analysis service...")

	s.store = repository.NewMemoryStore(repository.WithCapacity(s.resultCapacity))
	s.index = dedupe.NewInMemoryIndex(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.analyzer, s.store, workerpool.WithLogger(s.logger))
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "chat analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("resultCapacity", s.resultCapacity),
	)
	return nil
}

// Stop closes the queue and waits for the workers. Queued analyses that
// have not started are abandoned.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping chat analysis service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "chat analysis service stopped")
}

// Submit accepts a transcript for asynchronous analysis. Identical
// transcripts are answered with the earlier analysis.
func (s *Service) Submit(ctx context.Context, transcript []byte) (Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Submission{}, ErrNotStarted
	}
	if len(bytes.TrimSpace(transcript)) == 0 {
		metrics.RecordTranscriptRejected("empty")
		return Submission{}, ErrEmptyTranscript
	}

	digest := dedupe.Digest(transcript)
	id := uuid.NewString()

	owner, seen := s.index.Claim(ctx, digest, id)
	if seen {
		r, err := s.store.Get(ctx, owner)
		if err == nil {
			metrics.RecordTranscriptDuplicate()
			s.logger.Debug(ctx, "duplicate transcript", logger.String("chat_id", owner))
			return Submission{ID: owner, Status: r.Status, Duplicate: true}, nil
		}
		// owner was evicted from the store; analyze again
		s.index.Release(ctx, digest)
		owner, seen = s.index.Claim(ctx, digest, id)
		if seen {
			return Submission{ID: owner, Status: repository.StatusPending, Duplicate: true}, nil
		}
	}

	if err := s.store.Create(ctx, id, digest, time.Now()); err != nil {
		s.index.Release(ctx, digest)
		return Submission{}, fmt.Errorf("create result: %w", err)
	}

	job := jobqueue.Job{ID: id, Transcript: transcript, SubmittedAt: time.Now()}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.store.Delete(ctx, id)
		s.index.Release(ctx, digest)
		metrics.RecordTranscriptRejected("backpressure")
		if errors.Is(err, jobqueue.ErrFull) || errors.Is(err, jobqueue.ErrClosed) {
			return Submission{}, fmt.Errorf("%w: %v", ErrBackpressure, err)
		}
		return Submission{}, err
	}

	s.logger.Debug(ctx, "transcript queued", logger.String("chat_id", id), logger.Int("bytes", len(transcript)))
	return Submission{ID: id, Status: repository.StatusPending}, nil
}

// Analyze runs the pipeline synchronously without touching the store.
func (s *Service) Analyze(ctx context.Context, r io.Reader) (*chat.Chat, language.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, language.Result{}, fmt.Errorf("read transcript: %w", err)
	}
	return s.analyzer.Analyze(ctx, b)
}

// Result returns the stored analysis for id.
func (s *Service) Result(ctx context.Context, id string) (repository.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return repository.Result{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Summary describes the analysis for id.
func (s *Service) Summary(ctx context.Context, id string) (types.Summary, error) {
	r, err := s.Result(ctx, id)
	if err != nil {
		return types.Summary{}, err
	}
	return Summarize(r), nil
}

// Summarize builds the summary of a stored result.
func Summarize(r repository.Result) types.Summary {
	sum := types.Summary{ID: r.ID, Status: string(r.Status)}
	if r.Err != nil {
		sum.Reason = r.Err.Error()
	}
	if r.Chat == nil {
		return sum
	}

	c := r.Chat
	sum.Valid = c.Valid()
	sum.SkippedBlocks = len(c.Skipped())
	if !c.Valid() {
		return sum
	}
	sum.TotalMessages = c.MessageCount()
	sum.SenderCount = len(c.Senders())
	sum.MaxMessageCount = c.MaxMessageCount()
	sum.Language = r.Language.Code
	msgs := c.Messages()
	sum.FirstMessageAt = lo.ToPtr(msgs[0].Timestamp)
	sum.LastMessageAt = lo.ToPtr(msgs[len(msgs)-1].Timestamp)
	return sum
}

// finished returns the valid chat for id or the reason it is unavailable.
func (s *Service) finished(ctx context.Context, id string) (*chat.Chat, error) {
	r, err := s.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	switch r.Status {
	case repository.StatusPending:
		return nil, ErrPending
	case repository.StatusInvalid:
		return nil, fmt.Errorf("%w: %v", ErrInvalidChat, r.Err)
	case repository.StatusFailed:
		return nil, fmt.Errorf("%w: %v", ErrFailed, r.Err)
	}
	return r.Chat, nil
}

// Senders returns up to limit ranked senders; a zero limit means all.
func (s *Service) Senders(ctx context.Context, id string, limit int) ([]types.RankedSender, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	c, err := s.finished(ctx, id)
	if err != nil {
		return nil, err
	}
	return RankedSenders(c, limit), nil
}

// RankedSenders converts a valid chat's ranking into rows.
func RankedSenders(c *chat.Chat, limit int) []types.RankedSender {
	ranked := c.Senders()
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranking.AssignRanks(ranked, c.MessageCount())
}

// Timeline returns the sampled timeline of a finished chat.
func (s *Service) Timeline(ctx context.Context, id string) ([]types.TimelinePoint, error) {
	c, err := s.finished(ctx, id)
	if err != nil {
		return nil, err
	}
	return TimelinePoints(c.Timeline()), nil
}

// TimelinePoints converts sampled points to their JSON shape.
func TimelinePoints(points []model.TimelinePoint) []types.TimelinePoint {
	return lo.Map(points, func(p model.TimelinePoint, _ int) types.TimelinePoint {
		return types.TimelinePoint{
			X:      p.NormX,
			Y:      p.NormY,
			RawX:   p.RawX,
			RawY:   p.RawY,
			XLabel: p.XLabel,
			YLabel: p.YLabel,
		}
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":                s.started,
		"workerCount":            s.workerCount,
		"queueSize":              s.queueSize,
		"dedupeSize":             s.dedupeSize,
		"resultCapacity":         s.resultCapacity,
		"maxTimelinePoints":      s.maxPoints,
		"maxConsecutiveFailures": s.maxConsecutiveFailures,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		results := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedResults"] = results
		stats["knownDigests"] = s.index.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRecords(results)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
