// Package aggregation combines the outputs of multiple interchangeable
// prediction models into a single decision-ready prediction with a
// confidence score and a ranked recommendation list.
package aggregation

import (
	"github.com/aristath/foresight/internal/domain"
)

// MarketContext is the economic context supplied to models for market-level
// predictions
type MarketContext struct {
	Indicators []domain.EconomicIndicator `json:"indicators"`
	Sentiment  float64                    `json:"sentiment"`
}

// TrainingData carries an observed outcome used to update a model's
// performance tracking. Updates are fire-and-forget from the aggregator's
// perspective.
type TrainingData struct {
	Symbol    string           `json:"symbol"`
	Predicted domain.Direction `json:"predicted"`
	Actual    domain.Direction `json:"actual"`
}

// Model is the capability contract every prediction model must satisfy.
// Implementations must be safe for concurrent prediction calls; Update
// mutates internal state and callers must serialize updates to one model.
type Model interface {
	// Name identifies the model in logs and configuration
	Name() string

	// PredictMarket produces a market-level prediction over a price series
	// and an economic context
	PredictMarket(series []float64, ctx MarketContext, horizonDays int) domain.Prediction

	// PredictSecurity produces a security-level prediction, augmented with a
	// technical score
	PredictSecurity(symbol string, prices []float64, factors []domain.EconomicIndicator, horizonDays int) domain.Prediction

	// PredictPortfolio produces a portfolio-level prediction, augmented with
	// an asset allocation map
	PredictPortfolio(portfolio domain.Portfolio, market domain.Prediction, horizonDays int) domain.Prediction

	// PerformanceMetrics reports the model's historical accuracy
	PerformanceMetrics() domain.PerformanceMetrics

	// Recommendations lists actionable suggestions for a portfolio given a
	// market prediction
	Recommendations(portfolio domain.Portfolio, market domain.Prediction) []domain.Recommendation

	// Update incorporates a new observation into the model's performance
	// tracking
	Update(data TrainingData) error
}
