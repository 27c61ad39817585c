package models

import (
	"sync"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
)

// Bollinger-position thresholds beyond which a reversal is expected
const (
	overboughtPosition = 0.7
	oversoldPosition   = 0.3
)

// MeanReversion expects stretched prices to revert: an overbought series is
// predicted down, an oversold one up.
type MeanReversion struct {
	indicators *indicators.Calculator
	log        zerolog.Logger

	mu    sync.Mutex
	hits  int
	total int
}

// NewMeanReversion creates a mean-reversion model
func NewMeanReversion(calc *indicators.Calculator, log zerolog.Logger) *MeanReversion {
	return &MeanReversion{
		indicators: calc,
		log:        log.With().Str("model", "mean_reversion").Logger(),
	}
}

// Name returns the model identifier
func (m *MeanReversion) Name() string { return "mean_reversion" }

// PredictMarket predicts reversal of the recent drift. The economic
// sentiment dampens the reversal expectation when it agrees with the drift.
func (m *MeanReversion) PredictMarket(series []float64, ctx aggregation.MarketContext, horizonDays int) domain.Prediction {
	returns := formulas.CalculateReturns(series)
	volatility := formulas.AnnualizedVolatility(returns)

	// Revert the recent drift over the horizon
	expectedReturn := -formulas.Mean(returns) * float64(horizonDays)
	expectedReturn += ctx.Sentiment / 100 * 0.005

	return domain.Prediction{
		Direction:      directionFromReturn(expectedReturn),
		ExpectedReturn: expectedReturn,
		Volatility:     volatility,
		RiskLevel:      riskFromVolatility(volatility),
	}
}

// PredictSecurity uses the Bollinger band position: stretched positions
// signal reversal, and the distance from the middle of the band becomes the
// technical score.
func (m *MeanReversion) PredictSecurity(symbol string, prices []float64, factors []domain.EconomicIndicator, horizonDays int) domain.Prediction {
	prediction := m.PredictMarket(prices, aggregation.MarketContext{Indicators: factors}, horizonDays)

	position := formulas.CalculateBollingerPosition(prices, indicators.BollingerLength, indicators.BollingerStd)
	if position != nil {
		switch {
		case position.Position >= overboughtPosition:
			prediction.Direction = domain.DirectionDown
		case position.Position <= oversoldPosition:
			prediction.Direction = domain.DirectionUp
		}

		// Distance from the band midpoint, scaled to [0, 1]: a stretched
		// band position is a strong reversal signal
		prediction.TechnicalScore = clamp01(2 * abs(position.Position-0.5))
	}

	return prediction
}

// PredictPortfolio projects the market prediction onto the portfolio with
// current market-value shares as the allocation.
func (m *MeanReversion) PredictPortfolio(portfolio domain.Portfolio, market domain.Prediction, horizonDays int) domain.Prediction {
	return domain.Prediction{
		Direction:       market.Direction,
		ExpectedReturn:  market.ExpectedReturn,
		Volatility:      market.Volatility,
		RiskLevel:       market.RiskLevel,
		AssetAllocation: allocationShares(portfolio),
	}
}

// PerformanceMetrics reports the running hit-rate with Laplace smoothing
func (m *MeanReversion) PerformanceMetrics() domain.PerformanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.PerformanceMetrics{
		Accuracy: float64(m.hits+1) / float64(m.total+2),
	}
}

// Recommendations lean against the market direction
func (m *MeanReversion) Recommendations(portfolio domain.Portfolio, market domain.Prediction) []domain.Recommendation {
	accuracy := m.PerformanceMetrics().Accuracy

	if market.Direction == domain.DirectionUp {
		return []domain.Recommendation{
			{Action: "hold_positions", Confidence: accuracy},
			{Action: "take_profits", Confidence: accuracy * 0.9},
		}
	}
	return []domain.Recommendation{
		{Action: "buy_the_dip", Confidence: accuracy * 0.9},
		{Action: "hold_positions", Confidence: accuracy * 0.7},
	}
}

// Update records a predicted/actual direction pair into the hit-rate
func (m *MeanReversion) Update(data aggregation.TrainingData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if data.Predicted == data.Actual {
		m.hits++
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
