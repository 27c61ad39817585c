package snapshots

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles snapshot HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new snapshots handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleLatest returns the most recent snapshot for a symbol
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	record, err := h.repo.Latest(symbol)
	if errors.Is(err, ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "No snapshot for symbol")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load latest snapshot")
		h.writeError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// HandleHistory returns snapshots for a symbol, newest first. The optional
// `limit` query parameter caps the result (default 100).
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.repo.History(symbol, limit)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load snapshot history")
		h.writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"snapshots": records,
		"count":     len(records),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
