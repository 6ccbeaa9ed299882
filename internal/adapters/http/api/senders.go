package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/chatrank/internal/domain/types"
)

// SendersDependencies defines the interface for ranking lookups.
type SendersDependencies interface {
	Senders(ctx context.Context, id string, limit int) ([]types.RankedSender, error)
}

// SendersHandler handles ranking requests.
type SendersHandler struct {
	deps     SendersDependencies
	maxLimit int
}

// NewSendersHandler creates a new senders handler.
func NewSendersHandler(deps SendersDependencies, maxLimit int) *SendersHandler {
	return &SendersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetSenders handles GET /chats/{id}/senders?limit=N requests.
// Without limit the whole ranking is returned.
func (h *SendersHandler) HandleGetSenders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_senders"
	n := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", wrapKind(op, ErrBadRequest, nil))
			return
		}
	}
	rows, err := h.deps.Senders(r.Context(), r.PathValue("id"), n)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
