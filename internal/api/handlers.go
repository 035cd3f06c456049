package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/models"
	"github.com/bibletext/dailyverse/internal/subscription"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	dispatcher    Dispatcher
	subscriptions SubscriptionService
	subscribers   SubscriberReader
	logs          LogReader
	log           *logger.Logger
}

// NewHandler creates a new handler.
func NewHandler(d Dispatcher, subs SubscriptionService, readers SubscriberReader, logs LogReader, log *logger.Logger) *Handler {
	return &Handler{
		dispatcher:    d,
		subscriptions: subs,
		subscribers:   readers,
		logs:          logs,
		log:           log,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Dispatch handles GET and POST /api/v1/dispatch. It runs one dispatch
// cycle, optionally narrowed to a single frequency cohort.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	frequency, ok := parseFrequency(r.URL.Query().Get("frequency"))
	if !ok {
		respondError(w, http.StatusBadRequest, "frequency must be hourly, daily, weekly or all")
		return
	}

	summary, err := h.dispatcher.Run(r.Context(), frequency, time.Now().UTC())
	if err != nil {
		h.log.Error().Err(err).Msg("dispatch run failed")
		respondError(w, http.StatusInternalServerError, "dispatch failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, DispatchResponse{
		Success:   true,
		Processed: summary.Processed,
		Sent:      summary.Sent,
		Failed:    summary.Failed,
		Timestamp: summary.Timestamp,
	})
}

// Subscribe handles POST /api/v1/subscribe
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscription.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	err := h.subscriptions.Signup(r.Context(), &req)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, SignupResponse{
			Success: true,
			Message: "check your inbox for a verification link",
		})
	case errors.Is(err, subscription.ErrAlreadySubscribed):
		respondError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("signup failed")
		respondError(w, http.StatusInternalServerError, "signup failed")
	}
}

// Verify handles GET /api/v1/verify?email=...&code=...
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	code := r.URL.Query().Get("code")

	err := h.subscriptions.Verify(r.Context(), email, code)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "verified",
			"message": "your subscription is active",
		})
	case errors.Is(err, subscription.ErrInvalidCode):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("verification failed")
		respondError(w, http.StatusInternalServerError, "verification failed")
	}
}

// Unsubscribe handles GET and POST /api/v1/unsubscribe?email=...
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	err := h.subscriptions.Unsubscribe(r.Context(), email)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "unsubscribed",
			"message": "you will no longer receive verses",
		})
	case errors.Is(err, subscription.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg("unsubscribe failed")
		respondError(w, http.StatusInternalServerError, "unsubscribe failed")
	}
}

// Logs handles GET /api/v1/logs?email=...&limit=...
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sub, err := h.subscribers.GetByEmail(r.Context(), email)
	if err != nil {
		h.log.Error().Err(err).Msg("subscriber lookup failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if sub == nil {
		respondError(w, http.StatusNotFound, "subscription not found")
		return
	}

	entries, err := h.logs.ListBySubscriber(r.Context(), sub.ID, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("log listing failed")
		respondError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, LogsResponse{Email: email, Logs: entries})
}

// parseFrequency maps the query value onto a cohort filter. Empty and
// "all" mean every cohort.
func parseFrequency(raw string) (models.Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return "", true
	case string(models.FrequencyHourly):
		return models.FrequencyHourly, true
	case string(models.FrequencyDaily):
		return models.FrequencyDaily, true
	case string(models.FrequencyWeekly):
		return models.FrequencyWeekly, true
	default:
		return "", false
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		subscription.ErrInvalidEmail,
		subscription.ErrInvalidLanguage,
		subscription.ErrInvalidVersion,
		subscription.ErrInvalidFrequency,
		subscription.ErrInvalidDeliveryDay,
		subscription.ErrInvalidPhone,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
