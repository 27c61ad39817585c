package economic

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// Handler handles economic analysis HTTP requests
type Handler struct {
	analyzer *Analyzer
	log      zerolog.Logger
}

// NewHandler creates a new economic handler
func NewHandler(analyzer *Analyzer, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		log:      log.With().Str("handler", "economic").Logger(),
	}
}

// SentimentRequest is the payload for sentiment and market-impact analysis
type SentimentRequest struct {
	Indicators []domain.EconomicIndicator `json:"indicators"`
}

// CorrelationRequest is the payload for indicator/market correlation
type CorrelationRequest struct {
	IndicatorValues   []float64 `json:"indicator_values"`
	MarketPerformance []float64 `json:"market_performance"`
}

// HandleSentiment computes the sentiment score and market-impact report for
// a set of indicators
func (h *Handler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	var req SentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sentiment":     h.analyzer.SentimentScore(req.Indicators),
		"market_impact": h.analyzer.MarketImpact(req.Indicators),
	})
}

// HandleCorrelation correlates an indicator series with market performance
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req CorrelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.analyzer.CorrelationWithMarket(req.IndicatorValues, req.MarketPerformance)
	if err != nil {
		if errors.Is(err, domain.ErrLengthMismatch) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleEventImpact analyzes the impact of a single economic observation
func (h *Handler) HandleEventImpact(w http.ResponseWriter, r *http.Request) {
	var indicator domain.EconomicIndicator
	if err := json.NewDecoder(r.Body).Decode(&indicator); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.writeJSON(w, http.StatusOK, h.analyzer.AnalyzeEventImpact(indicator))
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
