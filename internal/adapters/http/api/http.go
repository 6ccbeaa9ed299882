// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/chatrank/internal/adapters/repository"
	service "github.com/okian/chatrank/internal/app"
	"github.com/okian/chatrank/internal/domain/types"
	"github.com/okian/chatrank/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ChatDependencies
	SummaryDependencies
	SendersDependencies
	TimelineDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	chatsHandler    *ChatsHandler
	summaryHandler  *SummaryHandler
	sendersHandler  *SendersHandler
	timelineHandler *TimelineHandler

	maxTranscriptBytes int64
	maxSendersLimit    int
	logger             logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxTranscriptBytes: DefaultMaxTranscriptBytes,
		maxSendersLimit:    DefaultMaxSendersLimit,
		logger:             logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.chatsHandler = NewChatsHandler(deps, s.maxTranscriptBytes, s.logger)
	s.summaryHandler = NewSummaryHandler(deps)
	s.sendersHandler = NewSendersHandler(deps, s.maxSendersLimit)
	s.timelineHandler = NewTimelineHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /chats", MetricsMiddleware(s.chatsHandler.HandlePostChat, "chats"))
	mux.HandleFunc("GET /chats/{id}", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("GET /chats/{id}/senders", MetricsMiddleware(s.sendersHandler.HandleGetSenders, "senders"))
	mux.HandleFunc("GET /chats/{id}/timeline", MetricsMiddleware(s.timelineHandler.HandleGetTimeline, "timeline"))

	s.logger.Info(ctx, "http routes registered")
}

// ackResponse answers POST /chats.
type ackResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Summary mirrors the read shape of GET /chats/{id}.
type Summary = types.Summary

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeQueryError maps service and store errors of the read endpoints.
func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrPending):
		writeError(w, http.StatusConflict, "pending", err)
	case errors.Is(err, service.ErrInvalidChat):
		writeError(w, http.StatusUnprocessableEntity, "invalid_chat", err)
	case errors.Is(err, service.ErrFailed):
		writeError(w, http.StatusUnprocessableEntity, "analysis_failed", err)
	case errors.Is(err, service.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
