package chat

import (
	"time"

	"github.com/okian/chatrank/internal/domain/timeline"
	"github.com/okian/chatrank/pkg/logger"
)

// DefaultMaxConsecutiveFailures is the number of back-to-back unparsable
// blocks tolerated before a chat is abandoned.
const DefaultMaxConsecutiveFailures = 50

type config struct {
	log                    logger.Logger
	maxPoints              int
	maxConsecutiveFailures int
	loc                    *time.Location
	layouts                []string
}

func defaults() config {
	return config{
		log:                    logger.Discard(),
		maxPoints:              timeline.MaxPoints,
		maxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		loc:                    time.UTC,
	}
}

// Option applies a configuration option to a chat build.
type Option func(*config)

// WithLogger sets the logger skipped blocks are reported to.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxPoints sets the timeline sample limit.
func WithMaxPoints(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPoints = n
		}
	}
}

// WithMaxConsecutiveFailures sets how many back-to-back unparsable blocks
// are tolerated.
func WithMaxConsecutiveFailures(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxConsecutiveFailures = n
		}
	}
}

// WithLocation sets the location timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLayouts overrides the accepted timestamp layouts.
func WithLayouts(layouts ...string) Option {
	return func(c *config) {
		if len(layouts) > 0 {
			c.layouts = layouts
		}
	}
}
