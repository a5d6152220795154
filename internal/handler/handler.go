// Package handler provides the JSON HTTP handlers for the interview API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avolkov/interviewd/internal/interview"
	"github.com/avolkov/interviewd/internal/model"
	"github.com/avolkov/interviewd/internal/session"
)

// Pinger reports whether the upstream completion service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	svc    *interview.Service
	store  *session.Store
	pinger Pinger
}

// New creates a new Handler. pinger may be nil, in which case the health
// endpoint only reports process liveness.
func New(svc *interview.Service, store *session.Store, pinger Pinger) *Handler {
	return &Handler{svc: svc, store: store, pinger: pinger}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.sweepSessions)
	r.Get("/healthz", h.handleHealth)
	r.Post("/clear-session", h.handleClearSession)
	r.Get("/next-question", h.handleNextQuestion)
	r.Post("/submit-answer", h.handleSubmitAnswer)
	r.Post("/interview-summary", h.handleSummary)
}

// sweepSessions removes expired sessions before each request is served.
// Eager sweeping keeps the single-process deployment free of timers.
func (h *Handler) sweepSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := h.store.SweepExpired(time.Now()); n > 0 {
			slog.Debug("removed expired sessions", "count", n)
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			slog.Warn("LLM health check failed", "error", err)
			JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type clearSessionRequest struct {
	Domain string `json:"domain"`
	Mode   string `json:"mode"`
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	var req clearSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	removed := h.store.DeleteMatching(req.Domain, req.Mode)
	slog.Info("cleared sessions", "domain", req.Domain, "mode", req.Mode, "count", removed)
	JSON(w, http.StatusOK, map[string]string{"message": "Sessions cleared"})
}

func (h *Handler) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("sessionId")
	role := q.Get("role")
	domain := q.Get("domain")
	mode := q.Get("mode")
	asked := parseAskedQuestions(q.Get("askedQuestions"))

	slog.Debug("next question requested",
		"session_id", sessionID, "role", role, "domain", domain, "mode", mode,
		"client_asked", len(asked))

	question, err := h.svc.NextQuestion(r.Context(), sessionID, role, domain, mode, asked)
	if errors.Is(err, interview.ErrExhausted) {
		JSON(w, http.StatusNotFound, map[string]string{"message": "No more questions"})
		return
	}
	if err != nil {
		slog.Error("question generation failed", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "question generation failed")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"question": question})
}

// parseAskedQuestions splits the comma-joined client-side asked list,
// tolerating empty and literal "null" values from a confused client.
func parseAskedQuestions(raw string) []string {
	if raw == "" || raw == "null" {
		return nil
	}
	var asked []string
	for _, q := range strings.Split(raw, ",") {
		if q != "" {
			asked = append(asked, q)
		}
	}
	return asked
}

type submitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.svc.SubmitAnswer(r.Context(), req.SessionID, req.Question, req.Answer)
	if err != nil {
		slog.Error("answer evaluation failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "answer evaluation failed")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

type summaryRequest struct {
	SessionID     string     `json:"sessionId"`
	Role          string     `json:"role"`
	Domain        string     `json:"domain"`
	Mode          string     `json:"mode"`
	CandidateName string     `json:"candidateName"`
	CompletedQA   []model.QA `json:"completedQA"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.svc.Summary(r.Context(), req.SessionID, req.Role, req.Domain, req.Mode, req.CandidateName, req.CompletedQA)
	if err != nil {
		slog.Error("summary generation failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "summary generation failed")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
