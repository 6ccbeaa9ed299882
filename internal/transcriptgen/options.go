package transcriptgen

import "time"

// Default generator settings.
const (
	DefaultMessages  = 1000
	DefaultSenders   = 5
	DefaultSeed      = 1
	DefaultMultiline = 0.1
)

// Option configures a Generator.
type Option func(*Generator)

// WithMessages sets the number of parseable messages to emit.
func WithMessages(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.messages = n
		}
	}
}

// WithSenders sets how many distinct participants appear.
func WithSenders(k int) Option {
	return func(g *Generator) {
		if k > 0 {
			g.senders = k
		}
	}
}

// WithNoise sets the ratio of system notifications (header lines without a
// sender) to messages. Notifications are skipped by the parser.
func WithNoise(ratio float64) Option {
	return func(g *Generator) {
		if ratio >= 0 && ratio < 1 {
			g.noise = ratio
		}
	}
}

// WithMultiline sets the probability that a message carries continuation lines.
func WithMultiline(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.multiline = p
		}
	}
}

// WithSeed makes the output reproducible for a given seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithStart sets the timestamp of the first message.
func WithStart(t time.Time) Option {
	return func(g *Generator) {
		if !t.IsZero() {
			g.start = t
		}
	}
}
