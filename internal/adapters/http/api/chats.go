package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	service "github.com/okian/chatrank/internal/app"
	"github.com/okian/chatrank/pkg/logger"
	"github.com/okian/chatrank/pkg/metrics"
)

const plainText = "text/plain"

// ChatDependencies defines what uploads need.
type ChatDependencies interface {
	Submit(ctx context.Context, transcript []byte) (service.Submission, error)
}

// ChatsHandler handles transcript uploads.
type ChatsHandler struct {
	deps     ChatDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewChatsHandler creates a new chats handler.
func NewChatsHandler(deps ChatDependencies, maxBytes int64, l logger.Logger) *ChatsHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &ChatsHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

// HandlePostChat handles POST /chats. The body is the raw export.
func (h *ChatsHandler) HandlePostChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_chat"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RecordTranscriptRejected("too_large")
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", wrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if len(body) == 0 {
		metrics.RecordTranscriptRejected("empty")
		writeError(w, http.StatusBadRequest, "empty", wrapKind(op, ErrEmptyTranscript, nil))
		return
	}
	if mime := mimetype.Detect(body); !isPlainText(mime) {
		metrics.RecordTranscriptRejected("unsupported_media_type")
		h.logger.Debug(r.Context(), "rejected upload", logger.String("mime", mime.String()))
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", wrapKind(op, ErrUnsupportedMedia, nil))
		return
	}

	sub, err := h.deps.Submit(r.Context(), body)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, "empty", wrapKind(op, ErrEmptyTranscript, err))
		return
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapKind(op, ErrBackpressure, err))
		return
	default:
		writeQueryError(w, err)
		return
	}

	status := http.StatusAccepted
	if sub.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, ackResponse{ID: sub.ID, Status: string(sub.Status), Duplicate: sub.Duplicate})
}

// isPlainText accepts text/plain and its text subtypes. Exports whose lines
// all carry a single comma are sniffed as text/csv.
func isPlainText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(plainText) {
			return true
		}
	}
	return false
}
