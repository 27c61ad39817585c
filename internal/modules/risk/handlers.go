package risk

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// Handler handles risk metric HTTP requests
type Handler struct {
	calculator *Calculator
	log        zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(calculator *Calculator, log zerolog.Logger) *Handler {
	return &Handler{
		calculator: calculator,
		log:        log.With().Str("handler", "risk").Logger(),
	}
}

// MetricsRequest is the payload for metric computation over a value series
type MetricsRequest struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// CorrelationRequest is the payload for correlation between two series
type CorrelationRequest struct {
	A []float64 `json:"a"`
	B []float64 `json:"b"`
}

// HandleMetrics computes volatility, max drawdown and Sharpe ratio for a
// value series
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	metrics := h.calculator.MetricsFromValues(req.Values)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      req.ID,
		"metrics": metrics,
	})
}

// HandleCorrelation computes the Pearson correlation between two series
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	correlation, err := h.calculator.Correlation(req.A, req.B)
	if err != nil {
		if errors.Is(err, domain.ErrLengthMismatch) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"correlation": correlation,
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
