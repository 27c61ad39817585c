package indicators

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles technical indicator HTTP requests
type Handler struct {
	calculator *Calculator
	log        zerolog.Logger
}

// NewHandler creates a new indicators handler
func NewHandler(calculator *Calculator, log zerolog.Logger) *Handler {
	return &Handler{
		calculator: calculator,
		log:        log.With().Str("handler", "indicators").Logger(),
	}
}

// SnapshotRequest is the payload for an indicator snapshot
type SnapshotRequest struct {
	Symbol string    `json:"symbol"`
	Prices []float64 `json:"prices"`
}

// HandleSnapshot computes the full indicator snapshot for one symbol
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	snapshot := h.calculator.Snapshot(req.Symbol, req.Prices)
	h.writeJSON(w, http.StatusOK, snapshot)
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
