// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// DedupeSize bounds the transcript digest index. Zero means unbounded.
	DedupeSize int `koanf:"dedupe_size" validate:"min=0"`

	// ResultCapacity bounds the number of stored analyses.
	ResultCapacity int `koanf:"result_capacity" validate:"min=1"`

	// MaxTranscriptBytes caps the body of POST /chats.
	MaxTranscriptBytes int64 `koanf:"max_transcript_bytes" validate:"min=1"`

	// MaxSendersLimit caps GET /chats/{id}/senders?limit.
	MaxSendersLimit int `koanf:"max_senders_limit" validate:"min=1"`

	// MaxTimelinePoints caps the sampled timeline.
	MaxTimelinePoints int `koanf:"max_timeline_points" validate:"min=1"`

	// MaxConsecutiveFailures is how many unparseable blocks in a row are
	// tolerated before a chat is rejected.
	MaxConsecutiveFailures int `koanf:"max_consecutive_failures" validate:"min=1"`

	// LanguageSample is how many messages feed language detection.
	LanguageSample int `koanf:"language_sample" validate:"min=0"`

	// Location names the time zone header timestamps are read in.
	Location string `koanf:"location" validate:"required"`
}

var validate = validator.New()

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              1024,
		WorkerCount:            runtime.NumCPU(),
		DedupeSize:             10_000,
		ResultCapacity:         10_000,
		MaxTranscriptBytes:     16 << 20,
		MaxSendersLimit:        1000,
		MaxTimelinePoints:      500,
		MaxConsecutiveFailures: 50,
		LanguageSample:         200,
		Location:               "UTC",
	}
}

// Validate checks field constraints and that Location names a known zone.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return wrap(ErrInvalidConfig, err)
	}
	if _, err := c.TimeLocation(); err != nil {
		return wrap(ErrInvalidConfig, err)
	}
	return nil
}

// TimeLocation resolves Location.
func (c *Config) TimeLocation() (*time.Location, error) {
	return time.LoadLocation(c.Location)
}
