package api

import (
	"context"
	"net/http"

	"github.com/okian/chatrank/internal/domain/types"
)

// TimelineDependencies defines the interface for timeline lookups.
type TimelineDependencies interface {
	Timeline(ctx context.Context, id string) ([]types.TimelinePoint, error)
}

// TimelineHandler handles timeline requests.
type TimelineHandler struct {
	deps TimelineDependencies
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies) *TimelineHandler {
	return &TimelineHandler{deps: deps}
}

// HandleGetTimeline handles GET /chats/{id}/timeline requests.
func (h *TimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	points, err := h.deps.Timeline(r.Context(), r.PathValue("id"))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
