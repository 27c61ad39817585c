package models

import (
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/rs/zerolog"
)

// New resolves a model name from configuration to an implementation.
// Unknown names resolve to the neutral no-op model rather than failing, so
// the model taxonomy stays extensible.
func New(name string, calc *indicators.Calculator, log zerolog.Logger) aggregation.Model {
	switch name {
	case "momentum":
		return NewMomentum(calc, log)
	case "mean_reversion":
		return NewMeanReversion(calc, log)
	default:
		log.Warn().Str("model", name).Msg("Unknown model type, using neutral model")
		return NewNeutral(name)
	}
}

// Neutral is the no-op model an unknown model type resolves to. It predicts
// up with zero expected return, medium risk, and no recommendations.
type Neutral struct {
	name string
}

// NewNeutral creates a neutral model carrying the unresolved name
func NewNeutral(name string) *Neutral {
	return &Neutral{name: name}
}

// Name returns the configured (unresolved) model name
func (n *Neutral) Name() string { return n.name }

func (n *Neutral) neutralPrediction() domain.Prediction {
	return domain.Prediction{
		Direction:      domain.DirectionUp,
		ExpectedReturn: 0,
		Volatility:     0,
		RiskLevel:      domain.RiskMedium,
	}
}

// PredictMarket returns the neutral prediction
func (n *Neutral) PredictMarket([]float64, aggregation.MarketContext, int) domain.Prediction {
	return n.neutralPrediction()
}

// PredictSecurity returns the neutral prediction with a neutral technical
// score
func (n *Neutral) PredictSecurity(string, []float64, []domain.EconomicIndicator, int) domain.Prediction {
	p := n.neutralPrediction()
	p.TechnicalScore = 0.5
	return p
}

// PredictPortfolio returns the neutral prediction with current allocation
// shares
func (n *Neutral) PredictPortfolio(portfolio domain.Portfolio, _ domain.Prediction, _ int) domain.Prediction {
	p := n.neutralPrediction()
	p.AssetAllocation = allocationShares(portfolio)
	return p
}

// PerformanceMetrics reports the uninformed 0.5 accuracy
func (n *Neutral) PerformanceMetrics() domain.PerformanceMetrics {
	return domain.PerformanceMetrics{Accuracy: 0.5}
}

// Recommendations returns nothing
func (n *Neutral) Recommendations(domain.Portfolio, domain.Prediction) []domain.Recommendation {
	return nil
}

// Update is a no-op
func (n *Neutral) Update(aggregation.TrainingData) error { return nil }
