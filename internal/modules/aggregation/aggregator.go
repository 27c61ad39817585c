package aggregation

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
)

// weightSumTolerance absorbs float rounding when validating model weights
const weightSumTolerance = 1e-9

// WeightedModel pairs a prediction model with its configured weight
type WeightedModel struct {
	Model  Model
	Weight float64
}

// predictionKind selects which confidence components apply
type predictionKind int

const (
	kindMarket predictionKind = iota
	kindSecurity
	kindPortfolio
)

// Aggregator holds an ordered set of weighted prediction models. Model
// weights are validated at construction and never recomputed at call time;
// every aggregation call is a pure function of its inputs and this fixed
// configuration.
type Aggregator struct {
	models []WeightedModel
	log    zerolog.Logger
}

// NewAggregator creates an aggregator over the given weighted models.
// Construction fails when no models are supplied or the weights do not sum
// to 1.
func NewAggregator(models []WeightedModel, log zerolog.Logger) (*Aggregator, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no models configured: %w", domain.ErrInvalidWeightConfig)
	}

	sum := 0.0
	for _, wm := range models {
		sum += wm.Weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("model weights sum to %.4f: %w", sum, domain.ErrInvalidWeightConfig)
	}

	return &Aggregator{
		models: models,
		log:    log.With().Str("component", "prediction_aggregator").Logger(),
	}, nil
}

// Models returns the configured model names in registration order
func (a *Aggregator) Models() []string {
	names := make([]string, len(a.models))
	for i, wm := range a.models {
		names[i] = wm.Model.Name()
	}
	return names
}

// PredictMarket aggregates all models' market-level predictions
func (a *Aggregator) PredictMarket(series []float64, ctx MarketContext, horizonDays int) domain.AggregatedPrediction {
	predictions := make([]domain.Prediction, len(a.models))
	for i, wm := range a.models {
		predictions[i] = wm.Model.PredictMarket(series, ctx, horizonDays)
	}
	return a.combine(predictions, horizonDays, kindMarket)
}

// PredictSecurity aggregates all models' security-level predictions
func (a *Aggregator) PredictSecurity(symbol string, prices []float64, factors []domain.EconomicIndicator, horizonDays int) domain.AggregatedPrediction {
	predictions := make([]domain.Prediction, len(a.models))
	for i, wm := range a.models {
		predictions[i] = wm.Model.PredictSecurity(symbol, prices, factors, horizonDays)
	}
	return a.combine(predictions, horizonDays, kindSecurity)
}

// PredictPortfolio aggregates all models' portfolio-level predictions
func (a *Aggregator) PredictPortfolio(portfolio domain.Portfolio, market domain.Prediction, horizonDays int) domain.AggregatedPrediction {
	predictions := make([]domain.Prediction, len(a.models))
	for i, wm := range a.models {
		predictions[i] = wm.Model.PredictPortfolio(portfolio, market, horizonDays)
	}
	return a.combine(predictions, horizonDays, kindPortfolio)
}

// Recommendations collects every model's recommendations, groups them by
// action, scores each group by the average of (member confidence × model
// weight), and sorts descending by confidence.
func (a *Aggregator) Recommendations(portfolio domain.Portfolio, market domain.Prediction) []domain.Recommendation {
	type group struct {
		sum   float64
		count int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, wm := range a.models {
		for _, rec := range wm.Model.Recommendations(portfolio, market) {
			g, ok := groups[rec.Action]
			if !ok {
				g = &group{}
				groups[rec.Action] = g
				order = append(order, rec.Action)
			}
			g.sum += rec.Confidence * wm.Weight
			g.count++
		}
	}

	combined := make([]domain.Recommendation, 0, len(order))
	for _, action := range order {
		g := groups[action]
		combined = append(combined, domain.Recommendation{
			Action:     action,
			Confidence: g.sum / float64(g.count),
		})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Confidence > combined[j].Confidence
	})

	return combined
}

// UpdateAll forwards an observed outcome to every model. Update failures are
// logged and never affect current predictions.
func (a *Aggregator) UpdateAll(data TrainingData) {
	for _, wm := range a.models {
		if err := wm.Model.Update(data); err != nil {
			a.log.Warn().
				Err(err).
				Str("model", wm.Model.Name()).
				Msg("Model update failed")
		}
	}
}

// combine merges per-model predictions into one aggregated prediction.
func (a *Aggregator) combine(predictions []domain.Prediction, horizonDays int, kind predictionKind) domain.AggregatedPrediction {
	directionWeight := make(map[domain.Direction]float64)
	directionReturn := make(map[domain.Direction]float64)

	expectedReturn := 0.0
	volatility := 0.0
	technicalScore := 0.0
	riskSum := 0.0
	allocation := make(map[string]float64)

	for i, p := range predictions {
		weight := a.models[i].Weight

		directionWeight[p.Direction] += weight
		directionReturn[p.Direction] += weight * p.ExpectedReturn

		expectedReturn += weight * p.ExpectedReturn
		volatility += weight * p.Volatility
		technicalScore += weight * p.TechnicalScore
		riskSum += weight * float64(p.RiskLevel)

		for symbol, share := range p.AssetAllocation {
			allocation[symbol] += weight * share
		}
	}

	// The ordinal risk level is divided by the model count, not the total
	// weight.
	riskLevel := riskSum / float64(len(predictions))

	confidence := a.confidence(predictions, technicalScore, allocation, kind)

	aggregated := domain.AggregatedPrediction{
		Direction:      winningDirection(directionWeight, directionReturn),
		ExpectedReturn: expectedReturn,
		Volatility:     volatility,
		RiskLevel:      riskLevel,
		Confidence:     confidence,
		HorizonDays:    horizonDays,
	}

	if kind == kindSecurity {
		aggregated.TechnicalScore = technicalScore
	}
	if kind == kindPortfolio && len(allocation) > 0 {
		aggregated.AssetAllocation = allocation
	}

	a.log.Debug().
		Str("direction", string(aggregated.Direction)).
		Float64("confidence", aggregated.Confidence).
		Int("models", len(predictions)).
		Msg("Aggregated prediction")

	return aggregated
}

// confidence averages the applicable components: directional consistency,
// mean historical accuracy, and the technical score (security) or
// diversification score (portfolio).
func (a *Aggregator) confidence(predictions []domain.Prediction, technicalScore float64, allocation map[string]float64, kind predictionKind) float64 {
	components := []float64{
		consistency(predictions),
		a.meanAccuracy(),
	}

	switch kind {
	case kindSecurity:
		components = append(components, technicalScore)
	case kindPortfolio:
		if len(allocation) > 0 {
			components = append(components, diversification(allocation))
		}
	}

	sum := 0.0
	for _, c := range components {
		sum += c
	}
	return sum / float64(len(components))
}

func (a *Aggregator) meanAccuracy() float64 {
	sum := 0.0
	for _, wm := range a.models {
		sum += wm.Model.PerformanceMetrics().Accuracy
	}
	return sum / float64(len(a.models))
}

// consistency scores directional agreement: 1.0 when all models agree, 0.5
// when exactly two distinct directions occur, 0 otherwise.
func consistency(predictions []domain.Prediction) float64 {
	distinct := make(map[domain.Direction]struct{})
	for _, p := range predictions {
		distinct[p.Direction] = struct{}{}
	}

	switch len(distinct) {
	case 1:
		return 1.0
	case 2:
		return 0.5
	default:
		return 0.0
	}
}

// diversification scores an allocation as 1 − (largest single share)
func diversification(allocation map[string]float64) float64 {
	largest := 0.0
	for _, share := range allocation {
		if share > largest {
			largest = share
		}
	}
	return 1.0 - largest
}

// winningDirection picks the direction with the largest combined weight.
// Exact ties go to the direction with the higher combined expected return,
// then to up.
func winningDirection(weights map[domain.Direction]float64, returns map[domain.Direction]float64) domain.Direction {
	up := weights[domain.DirectionUp]
	down := weights[domain.DirectionDown]

	switch {
	case up > down:
		return domain.DirectionUp
	case down > up:
		return domain.DirectionDown
	case returns[domain.DirectionDown] > returns[domain.DirectionUp]:
		return domain.DirectionDown
	default:
		return domain.DirectionUp
	}
}
