// Package worker runs transcript analyses off the job queue.
package worker

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/chatrank/internal/adapters/mq/queue"
	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/language"
	"github.com/okian/chatrank/pkg/logger"
	"github.com/okian/chatrank/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Analyzer turns a raw transcript into a chat and its language.
type Analyzer interface {
	Analyze(ctx context.Context, transcript []byte) (*chat.Chat, language.Result, error)
}

// Sink receives finished analyses.
type Sink interface {
	Complete(ctx context.Context, id string, c *chat.Chat, lang language.Result) error
	Fail(ctx context.Context, id string, err error) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// ChatAnalyzer is the default Analyzer: chat.Read followed by language
// detection on valid chats.
type ChatAnalyzer struct {
	opts       []chat.Option
	sampleSize int
}

// NewChatAnalyzer constructs a ChatAnalyzer passing opts to every build.
func NewChatAnalyzer(sampleSize int, opts ...chat.Option) *ChatAnalyzer {
	return &ChatAnalyzer{opts: opts, sampleSize: sampleSize}
}

// Analyze implements Analyzer.
func (a *ChatAnalyzer) Analyze(ctx context.Context, transcript []byte) (*chat.Chat, language.Result, error) {
	start := time.Now()
	c, err := chat.Read(ctx, bytes.NewReader(transcript), a.opts...)
	if err != nil {
		return nil, language.Result{}, err
	}
	metrics.RecordAnalysisDuration(float64(time.Since(start).Microseconds()) / 1000)

	outcome := "valid"
	if !c.Valid() {
		outcome = c.Reason()
	}
	metrics.RecordTranscriptAnalyzed(outcome)
	metrics.AddBlocksSkipped(len(c.Skipped()))

	if !c.Valid() {
		return c, language.Result{}, nil
	}
	metrics.AddMessagesParsed(c.MessageCount())
	metrics.RecordSendersPerChat(len(c.Senders()))
	metrics.RecordTimelinePoints(len(c.Timeline()))
	return c, language.Detect(c.Messages(), a.sampleSize), nil
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	sink     Sink
	name     string

	shutdown chan struct{}
	done     chan struct{}

	base   logger.Logger // as configured, before naming
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Discard(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.base = w.logger
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("chat_id", j.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) error {
	start := time.Now()
	metrics.AddWorkerBusy(1)
	defer func() {
		metrics.AddWorkerBusy(-1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	c, lang, err := w.analyzer.Analyze(ctx, j.Transcript)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analyze_error")
		if ferr := w.sink.Fail(ctx, j.ID, err); ferr != nil {
			return fmt.Errorf("record failure of %s: %w", j.ID, ferr)
		}
		return fmt.Errorf("analyze %s: %w", j.ID, err)
	}

	if err := w.sink.Complete(ctx, j.ID, c, lang); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store %s: %w", j.ID, err)
	}

	w.logger.Debug(ctx, "chat analyzed",
		logger.String("chat_id", j.ID),
		logger.Bool("valid", c.Valid()),
		logger.Int("messages", c.MessageCount()),
		logger.Duration("queued_for", start.Sub(j.SubmittedAt)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount means one
// worker per CPU.
func NewPool(workerCount int, q Queue, analyzer Analyzer, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}

	for i := 0; i < workerCount; i++ {
		wopts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, analyzer, sink, wopts...)
	}
	pool.logger = pool.workers[0].base.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
}

// Shutdown closes the queue and waits for the workers to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
