package api

import "github.com/okian/chatrank/pkg/logger"

// Default request limits.
const (
	DefaultMaxTranscriptBytes = 16 << 20
	DefaultMaxSendersLimit    = 1000
)

// Option configures a Server.
type Option func(*Server)

// WithMaxTranscriptBytes caps the upload size of POST /chats.
func WithMaxTranscriptBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTranscriptBytes = n
		}
	}
}

// WithMaxSendersLimit caps the limit query parameter of the senders endpoint.
func WithMaxSendersLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSendersLimit = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
