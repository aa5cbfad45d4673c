package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/analytics"
)

type askRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	s.logger.Debug("ask request", zap.String("session_id", req.SessionID))
	answer, err := s.assistant.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		s.logger.Error("ask failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report := analytics.Build(s.holder.Items())
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSessionMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetSession(r.Context(), id); err != nil {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := s.store.ListMessages(r.Context(), id, limit)
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"session_id": id, "messages": messages})
}

func (s *Server) handleDatasetReload(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("dataset reload request")
	if err := s.holder.Reload(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"items":  len(s.holder.Items()),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessionCount, err := s.store.CountSessions(r.Context())
	if err != nil {
		s.logger.Error("status: count sessions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := s.holder.Items()
	breakdown := map[string]int{}
	for _, it := range items {
		breakdown[it.MatchType]++
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"items":             len(items),
		"match_types":       breakdown,
		"dataset_path":      s.holder.Path(),
		"dataset_loaded_at": s.holder.LoadedAt(),
		"sessions":          sessionCount,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
