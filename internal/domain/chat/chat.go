// Package chat runs the analysis pipeline over one transcript.
//
// Build reassembles lines into blocks, parses every block while counting
// messages per sender, then ranks the senders and samples the timeline.
// It is synchronous and keeps no state between calls.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/chatrank/internal/domain/model"
	"github.com/okian/chatrank/internal/domain/parser"
	"github.com/okian/chatrank/internal/domain/ranking"
	"github.com/okian/chatrank/internal/domain/senders"
	"github.com/okian/chatrank/internal/domain/timeline"
	"github.com/okian/chatrank/internal/domain/transcript"
	"github.com/okian/chatrank/pkg/logger"
)

// Skipped records a block that failed to parse.
type Skipped struct {
	Index int // block index within the transcript
	Err   error
}

// Chat is the result of one analysis.
type Chat struct {
	valid    bool
	err      error
	agg      *senders.Aggregator
	messages []model.Message
	ranked   []*model.Sender
	points   []model.TimelinePoint
	skipped  []Skipped
	blocks   int
}

// Read consumes r and builds a chat from it. The error is non-nil only when
// reading fails; an unusable transcript yields an invalid chat.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Chat, error) {
	lines, err := transcript.ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return Build(ctx, lines, opts...), nil
}

// Build analyzes the given physical lines.
func Build(ctx context.Context, lines []string, opts ...Option) *Chat {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.Named("chat")

	c := &Chat{agg: senders.New()}

	blocks := transcript.Reassemble(lines)
	c.blocks = len(blocks)
	if len(blocks) == 0 {
		return c.invalidate(ctx, log, ErrStructural)
	}

	popts := []parser.Option{parser.WithRegistrar(c.agg), parser.WithLocation(cfg.loc)}
	if len(cfg.layouts) > 0 {
		popts = append(popts, parser.WithLayouts(cfg.layouts...))
	}
	p := parser.New(popts...)

	c.messages = make([]model.Message, 0, len(blocks))
	consecutive := 0
	for i, block := range blocks {
		msg, err := p.Parse(block)
		if err != nil {
			c.skipped = append(c.skipped, Skipped{Index: i, Err: err})
			log.Debug(ctx, "block skipped", logger.Int("block", i), logger.Error(err))
			consecutive++
			if consecutive > cfg.maxConsecutiveFailures {
				return c.invalidate(ctx, log, ErrExcessiveParseFailures)
			}
			continue
		}
		consecutive = 0
		c.messages = append(c.messages, msg)
	}
	if len(c.messages) == 0 {
		return c.invalidate(ctx, log, ErrEmptyResult)
	}

	c.ranked = ranking.Rank(c.agg.Ordered())
	c.points = timeline.Sample(c.messages, cfg.maxPoints)
	c.valid = true

	log.Debug(ctx, "chat built",
		logger.Int("blocks", len(blocks)),
		logger.Int("messages", len(c.messages)),
		logger.Int("senders", len(c.ranked)),
		logger.Int("skipped", len(c.skipped)),
	)
	return c
}

func (c *Chat) invalidate(ctx context.Context, log logger.Logger, reason error) *Chat {
	c.valid = false
	c.err = reason
	c.messages = nil
	c.ranked = nil
	c.points = nil
	log.Info(ctx, "chat invalid",
		logger.Error(reason),
		logger.Int("blocks", c.blocks),
		logger.Int("skipped", len(c.skipped)),
	)
	return c
}

// Valid reports whether the chat produced usable results.
func (c *Chat) Valid() bool { return c.valid }

// Err returns why the chat is invalid, or nil.
func (c *Chat) Err() error { return c.err }

// Senders returns the ranking, highest count first.
func (c *Chat) Senders() []*model.Sender { return c.ranked }

// Sender looks up a sender of a valid chat by exact name.
func (c *Chat) Sender(name string) (*model.Sender, bool) {
	if !c.valid {
		return nil, false
	}
	return c.agg.Get(name)
}

// Messages returns the parsed messages in transcript order.
func (c *Chat) Messages() []model.Message { return c.messages }

// MessageCount returns the number of parsed messages.
func (c *Chat) MessageCount() int { return len(c.messages) }

// MaxMessageCount returns the highest per-sender count.
func (c *Chat) MaxMessageCount() int {
	if len(c.ranked) == 0 {
		return 0
	}
	return c.ranked[0].MessageCount
}

// Timeline returns the sampled, normalized timeline.
func (c *Chat) Timeline() []model.TimelinePoint { return c.points }

// Skipped returns the blocks that failed to parse.
func (c *Chat) Skipped() []Skipped { return c.skipped }

// Blocks returns the number of reassembled blocks.
func (c *Chat) Blocks() int { return c.blocks }

// Reason returns a short machine-friendly reason for an invalid chat.
func (c *Chat) Reason() string {
	switch {
	case c.valid:
		return ""
	case errors.Is(c.err, ErrStructural):
		return "structural"
	case errors.Is(c.err, ErrExcessiveParseFailures):
		return "excessive_failures"
	case errors.Is(c.err, ErrEmptyResult):
		return "empty"
	default:
		return "unknown"
	}
}

// String lists one "name, count" line per ranked sender.
func (c *Chat) String() string {
	var b strings.Builder
	for _, s := range c.ranked {
		fmt.Fprintf(&b, "%s, %d\n", s.Name, s.MessageCount)
	}
	return b.String()
}
