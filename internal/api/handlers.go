// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/factchecker/newscred/internal/database"
	"github.com/factchecker/newscred/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps fact-check request bodies.
const maxBodyBytes = 1 << 20

// missingFieldsMessage is the client error text for absent title or content.
const missingFieldsMessage = "Missing required fields: title and content"

// Checker runs a credibility check.
type Checker interface {
	Check(ctx context.Context, req *models.CheckRequest) (*models.CheckResponse, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	checker Checker
	store   database.Store
	version string
}

// NewHandler creates a new handler. store may be nil when key management
// and auditing are disabled.
func NewHandler(checker Checker, store database.Store, version string) *Handler {
	return &Handler{
		checker: checker,
		store:   store,
		version: version,
	}
}

// Index describes the service.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "online",
		"message": "Fact Check API is running",
		"endpoints": map[string]string{
			"/api/fact-check":    "POST - Check facts in provided content",
			"/api/v1/fact-check": "POST - Check facts in provided content",
			"/api/v1/health":     "GET - Service health",
			"/metrics":           "GET - Prometheus metrics",
		},
	})
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("Database health check failed")
			response["status"] = "degraded"
			response["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		} else {
			response["database"] = "ok"
		}
	}

	writeJSON(w, status, response)
}

// FactCheck handles credibility check requests.
func (h *Handler) FactCheck(w http.ResponseWriter, r *http.Request) {
	var req models.CheckRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.checker.Check(r.Context(), &req)
	if errors.Is(err, models.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, missingFieldsMessage)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Check failed")
		writeError(w, http.StatusInternalServerError, "Check failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateAPIKey creates a new API key.
func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		RequestsPerMinute int    `json:"requests_per_minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	rawKey, apiKey, err := NewAPIKey(req.Name, req.RequestsPerMinute)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate API key")
		writeError(w, http.StatusInternalServerError, "Failed to generate key")
		return
	}

	if err := h.store.CreateAPIKey(r.Context(), apiKey); err != nil {
		log.Error().Err(err).Msg("Failed to create API key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	// Return the raw key only once
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":                  apiKey.ID,
		"key":                 rawKey,
		"name":                apiKey.Name,
		"requests_per_minute": apiKey.RequestsPerMinute,
		"created_at":          apiKey.CreatedAt,
	})
}

// ListAPIKeys lists all API keys (without the actual keys).
func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAPIKeys(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"keys": keys,
	})
}

// DeleteAPIKey deletes an API key.
func (h *Handler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	err := h.store.DeleteAPIKey(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "API key not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete API key")
		writeError(w, http.StatusInternalServerError, "Failed to delete API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request, defaultLimit int) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
