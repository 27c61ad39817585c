package rebalancing

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	engine *Engine
	log    zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(engine *Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "rebalancing").Logger(),
	}
}

// PlanRequest is the payload for a rebalancing plan
type PlanRequest struct {
	Portfolio  domain.Portfolio        `json:"portfolio"`
	Allocation domain.TargetAllocation `json:"allocation"`
}

// HandlePlan builds a full rebalancing plan for a portfolio snapshot
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Portfolio.Positions) == 0 {
		h.writeError(w, http.StatusBadRequest, "Portfolio has no positions")
		return
	}

	plan := h.engine.BuildPlan(req.Portfolio, req.Allocation)
	h.writeJSON(w, http.StatusOK, plan)
}

// HandleDeviations returns weight deviations without generating transactions
func (h *Handler) HandleDeviations(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	targetWeights := h.engine.TargetWeights(req.Portfolio.Positions, req.Allocation)
	deviations := h.engine.WeightDeviations(req.Portfolio.Positions, targetWeights)

	flagged := make([]string, 0)
	for symbol, deviation := range deviations {
		if h.engine.NeedsRebalancing(deviation) {
			flagged = append(flagged, symbol)
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"deviations": deviations,
		"flagged":    flagged,
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
