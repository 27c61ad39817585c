package aggregation

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// Handler handles prediction HTTP requests
type Handler struct {
	aggregator *Aggregator
	log        zerolog.Logger
}

// NewHandler creates a new aggregation handler
func NewHandler(aggregator *Aggregator, log zerolog.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		log:        log.With().Str("handler", "predictions").Logger(),
	}
}

// MarketRequest is the payload for a market-level prediction
type MarketRequest struct {
	Series      []float64     `json:"series"`
	Context     MarketContext `json:"context"`
	HorizonDays int           `json:"horizon_days"`
}

// SecurityRequest is the payload for a security-level prediction
type SecurityRequest struct {
	Symbol      string                     `json:"symbol"`
	Prices      []float64                  `json:"prices"`
	Factors     []domain.EconomicIndicator `json:"factors"`
	HorizonDays int                        `json:"horizon_days"`
}

// PortfolioRequest is the payload for a portfolio-level prediction
type PortfolioRequest struct {
	Portfolio   domain.Portfolio  `json:"portfolio"`
	Market      domain.Prediction `json:"market"`
	HorizonDays int               `json:"horizon_days"`
}

// HandleMarket aggregates a market-level prediction
func (h *Handler) HandleMarket(w http.ResponseWriter, r *http.Request) {
	var req MarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prediction := h.aggregator.PredictMarket(req.Series, req.Context, req.HorizonDays)
	h.writeJSON(w, http.StatusOK, prediction)
}

// HandleSecurity aggregates a security-level prediction
func (h *Handler) HandleSecurity(w http.ResponseWriter, r *http.Request) {
	var req SecurityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Symbol == "" {
		h.writeError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	prediction := h.aggregator.PredictSecurity(req.Symbol, req.Prices, req.Factors, req.HorizonDays)
	h.writeJSON(w, http.StatusOK, prediction)
}

// HandlePortfolio aggregates a portfolio-level prediction
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prediction := h.aggregator.PredictPortfolio(req.Portfolio, req.Market, req.HorizonDays)

	recommendations := h.aggregator.Recommendations(req.Portfolio, req.Market)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"prediction":      prediction,
		"recommendations": recommendations,
	})
}

// HandleUpdate forwards an observed outcome to every registered model
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var data TrainingData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.aggregator.UpdateAll(data)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
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
