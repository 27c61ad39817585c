// Package economic converts raw economic indicators into sentiment scores,
// market-impact breakdowns and event-impact analysis.
package economic

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
)

// Sentiment score bounds
const (
	SentimentMin = -100.0
	SentimentMax = 100.0
)

// Event magnitude thresholds on the absolute impact score
const (
	eventHighThreshold     = 10.0
	eventModerateThreshold = 3.0
)

// weightSumTolerance absorbs float rounding when validating weight tables
const weightSumTolerance = 1e-9

// Config holds the analyzer's weight tables. The named type weights must sum
// to 1; unknown indicator types fall back to DefaultTypeWeight.
type Config struct {
	TypeWeights       map[domain.IndicatorType]float64
	ImpactWeights     map[domain.Impact]float64
	DefaultTypeWeight float64
}

// DefaultConfig returns the standard weight tables
func DefaultConfig() Config {
	return Config{
		TypeWeights: map[domain.IndicatorType]float64{
			domain.IndicatorGDP:                0.30,
			domain.IndicatorInflation:          0.25,
			domain.IndicatorInterestRate:       0.20,
			domain.IndicatorUnemployment:       0.15,
			domain.IndicatorConsumerConfidence: 0.10,
		},
		ImpactWeights: map[domain.Impact]float64{
			domain.ImpactPositive: 0.30,
			domain.ImpactNegative: -0.30,
			domain.ImpactNeutral:  0.0,
		},
		DefaultTypeWeight: 0.10,
	}
}

// TypeImpact is the per-indicator-type slice of a market impact report
type TypeImpact struct {
	Type         domain.IndicatorType `json:"type"`
	Weight       float64              `json:"weight"`
	Contribution float64              `json:"contribution"`
	Trend        domain.Trend         `json:"trend"`
	Observations int                  `json:"observations"`
}

// MarketImpactReport is the aggregate market-impact score with a per-type
// breakdown
type MarketImpactReport struct {
	Score     float64      `json:"score"`
	Breakdown []TypeImpact `json:"breakdown"`
}

// CorrelationResult pairs a correlation coefficient with its significance
// bucket
type CorrelationResult struct {
	Correlation  float64 `json:"correlation"`
	Significance float64 `json:"significance"`
}

// EventImpact describes the expected effect of a single economic observation
type EventImpact struct {
	Indicator domain.EconomicIndicator `json:"indicator"`
	Score     float64                  `json:"score"`
	Magnitude string                   `json:"magnitude"` // high, moderate, low
}

// Analyzer scores economic indicators against fixed weight tables
type Analyzer struct {
	cfg Config
	log zerolog.Logger
}

// NewAnalyzer creates an economic context analyzer. Construction fails when
// the named type weights do not sum to 1.
func NewAnalyzer(cfg Config, log zerolog.Logger) (*Analyzer, error) {
	sum := 0.0
	for _, w := range cfg.TypeWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("type weights sum to %.4f: %w", sum, domain.ErrInvalidWeightConfig)
	}

	return &Analyzer{
		cfg: cfg,
		log: log.With().Str("component", "economic_analyzer").Logger(),
	}, nil
}

// typeWeight resolves the weight for an indicator type; unknown types get the
// default weight rather than an error.
func (a *Analyzer) typeWeight(t domain.IndicatorType) float64 {
	if w, ok := a.cfg.TypeWeights[t]; ok {
		return w
	}
	return a.cfg.DefaultTypeWeight
}

// impactWeight resolves the weight for an impact classification; unknown
// impacts are neutral.
func (a *Analyzer) impactWeight(i domain.Impact) float64 {
	return a.cfg.ImpactWeights[i]
}

// SentimentScore converts a set of indicators into a single sentiment score.
//
// Formula: Σ(value × typeWeight × impactWeight), clamped to [−100, 100].
func (a *Analyzer) SentimentScore(indicators []domain.EconomicIndicator) float64 {
	score := 0.0
	for _, ind := range indicators {
		score += ind.Value * a.typeWeight(ind.Type) * a.impactWeight(ind.Impact)
	}

	if score > SentimentMax {
		score = SentimentMax
	}
	if score < SentimentMin {
		score = SentimentMin
	}
	return score
}

// MarketImpact computes the aggregate market-impact score with a per-type
// breakdown. The per-type trend classification runs over that type's values
// in chronological order.
func (a *Analyzer) MarketImpact(indicators []domain.EconomicIndicator) MarketImpactReport {
	byType := make(map[domain.IndicatorType][]domain.EconomicIndicator)
	order := make([]domain.IndicatorType, 0)

	total := 0.0
	for _, ind := range indicators {
		total += a.impactWeight(ind.Impact) * a.typeWeight(ind.Type)
		if _, seen := byType[ind.Type]; !seen {
			order = append(order, ind.Type)
		}
		byType[ind.Type] = append(byType[ind.Type], ind)
	}

	breakdown := make([]TypeImpact, 0, len(order))
	for _, indicatorType := range order {
		group := byType[indicatorType]

		sorted := make([]domain.EconomicIndicator, len(group))
		copy(sorted, group)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})

		values := make([]float64, len(sorted))
		contribution := 0.0
		for i, ind := range sorted {
			values[i] = ind.Value
			contribution += a.impactWeight(ind.Impact) * a.typeWeight(ind.Type)
		}

		breakdown = append(breakdown, TypeImpact{
			Type:         indicatorType,
			Weight:       a.typeWeight(indicatorType),
			Contribution: contribution,
			Trend:        classifyTrend(values),
			Observations: len(group),
		})
	}

	return MarketImpactReport{
		Score:     total,
		Breakdown: breakdown,
	}
}

// CorrelationWithMarket correlates an indicator value series with a market
// performance series and buckets the result into a significance level.
// Mismatched lengths are rejected with ErrLengthMismatch.
func (a *Analyzer) CorrelationWithMarket(indicatorValues, marketPerformance []float64) (CorrelationResult, error) {
	if len(indicatorValues) != len(marketPerformance) {
		return CorrelationResult{}, fmt.Errorf(
			"correlation of %d vs %d points: %w",
			len(indicatorValues), len(marketPerformance), domain.ErrLengthMismatch)
	}

	r := formulas.Correlation(indicatorValues, marketPerformance)

	return CorrelationResult{
		Correlation:  r,
		Significance: significance(r),
	}, nil
}

// AnalyzeEventImpact scores a single economic observation and buckets it by
// magnitude.
func (a *Analyzer) AnalyzeEventImpact(indicator domain.EconomicIndicator) EventImpact {
	score := indicator.Value * a.typeWeight(indicator.Type) * a.impactWeight(indicator.Impact)

	magnitude := "low"
	switch {
	case math.Abs(score) >= eventHighThreshold:
		magnitude = "high"
	case math.Abs(score) >= eventModerateThreshold:
		magnitude = "moderate"
	}

	return EventImpact{
		Indicator: indicator,
		Score:     score,
		Magnitude: magnitude,
	}
}

// significance maps an absolute correlation coefficient to a fixed
// significance bucket.
func significance(r float64) float64 {
	abs := math.Abs(r)
	switch {
	case abs > 0.7:
		return 0.95
	case abs > 0.5:
		return 0.85
	case abs > 0.3:
		return 0.75
	case abs > 0.1:
		return 0.65
	default:
		return 0.5
	}
}

// classifyTrend applies the ±1% first-to-last change rule
func classifyTrend(values []float64) domain.Trend {
	if len(values) < 2 || values[0] == 0 {
		return domain.TrendSideways
	}

	change := (values[len(values)-1] - values[0]) / values[0]
	switch {
	case change > 0.01:
		return domain.TrendUp
	case change < -0.01:
		return domain.TrendDown
	default:
		return domain.TrendSideways
	}
}
