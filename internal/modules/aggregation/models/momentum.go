// Package models provides built-in deterministic implementations of the
// prediction-model contract. They are not trained models; they derive their
// predictions from technical indicators and the economic context, and track
// a running hit-rate as their accuracy.
package models

import (
	"sync"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
)

// Volatility thresholds for ordinal risk classification (annualized)
const (
	lowRiskVolatility    = 0.15
	mediumRiskVolatility = 0.30
)

// Momentum follows the prevailing trend: rising series are expected to keep
// rising over the horizon.
type Momentum struct {
	indicators *indicators.Calculator
	log        zerolog.Logger

	mu    sync.Mutex
	hits  int
	total int
}

// NewMomentum creates a momentum model
func NewMomentum(calc *indicators.Calculator, log zerolog.Logger) *Momentum {
	return &Momentum{
		indicators: calc,
		log:        log.With().Str("model", "momentum").Logger(),
	}
}

// Name returns the model identifier
func (m *Momentum) Name() string { return "momentum" }

// PredictMarket predicts the market direction from the series trend, tilted
// by economic sentiment.
func (m *Momentum) PredictMarket(series []float64, ctx aggregation.MarketContext, horizonDays int) domain.Prediction {
	returns := formulas.CalculateReturns(series)
	volatility := formulas.AnnualizedVolatility(returns)

	expectedReturn := formulas.Mean(returns) * float64(horizonDays)
	// Sentiment is on a [-100, 100] scale; shift expectations slightly
	expectedReturn += ctx.Sentiment / 100 * 0.01

	return domain.Prediction{
		Direction:      directionFromReturn(expectedReturn),
		ExpectedReturn: expectedReturn,
		Volatility:     volatility,
		RiskLevel:      riskFromVolatility(volatility),
	}
}

// PredictSecurity predicts a single security from its price trend and adds a
// technical score derived from RSI and trend agreement.
func (m *Momentum) PredictSecurity(symbol string, prices []float64, factors []domain.EconomicIndicator, horizonDays int) domain.Prediction {
	prediction := m.PredictMarket(prices, aggregation.MarketContext{Indicators: factors}, horizonDays)

	// Momentum reads a strong RSI as continuation strength
	rsi := m.indicators.RSI(prices, indicators.RSIPeriod)
	prediction.TechnicalScore = clamp01(rsi / 100)

	return prediction
}

// PredictPortfolio projects the market prediction onto the portfolio and
// reports current market-value shares as the asset allocation.
func (m *Momentum) PredictPortfolio(portfolio domain.Portfolio, market domain.Prediction, horizonDays int) domain.Prediction {
	return domain.Prediction{
		Direction:       market.Direction,
		ExpectedReturn:  market.ExpectedReturn,
		Volatility:      market.Volatility,
		RiskLevel:       market.RiskLevel,
		AssetAllocation: allocationShares(portfolio),
	}
}

// PerformanceMetrics reports the running hit-rate with Laplace smoothing, so
// a fresh model starts at 0.5.
func (m *Momentum) PerformanceMetrics() domain.PerformanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.PerformanceMetrics{
		Accuracy: float64(m.hits+1) / float64(m.total+2),
	}
}

// Recommendations suggests riding the trend or de-risking against it
func (m *Momentum) Recommendations(portfolio domain.Portfolio, market domain.Prediction) []domain.Recommendation {
	accuracy := m.PerformanceMetrics().Accuracy

	if market.Direction == domain.DirectionUp {
		return []domain.Recommendation{
			{Action: "increase_equity_exposure", Confidence: accuracy},
			{Action: "hold_positions", Confidence: accuracy * 0.8},
		}
	}
	return []domain.Recommendation{
		{Action: "reduce_risk", Confidence: accuracy},
		{Action: "raise_cash", Confidence: accuracy * 0.8},
	}
}

// Update records a predicted/actual direction pair into the hit-rate
func (m *Momentum) Update(data aggregation.TrainingData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if data.Predicted == data.Actual {
		m.hits++
	}

	m.log.Debug().
		Int("hits", m.hits).
		Int("total", m.total).
		Msg("Updated model performance")
	return nil
}

// directionFromReturn maps a signed expected return onto a direction.
// Non-negative expectations read as up.
func directionFromReturn(expectedReturn float64) domain.Direction {
	if expectedReturn < 0 {
		return domain.DirectionDown
	}
	return domain.DirectionUp
}

// riskFromVolatility buckets annualized volatility into the ordinal scale
func riskFromVolatility(volatility float64) domain.RiskLevel {
	switch {
	case volatility < lowRiskVolatility:
		return domain.RiskLow
	case volatility < mediumRiskVolatility:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// allocationShares returns each position's share of total market value
func allocationShares(portfolio domain.Portfolio) map[string]float64 {
	total := portfolio.TotalValue()
	if total <= 0 {
		return nil
	}

	shares := make(map[string]float64, len(portfolio.Positions))
	for symbol, pos := range portfolio.Positions {
		shares[symbol] = pos.MarketValue() / total
	}
	return shares
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
