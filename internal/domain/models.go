package domain

import "time"

// Direction represents a predicted market direction
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Trend represents a price trend classification
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// RiskLevel is an ordinal risk category, represented as an integer so it can
// be combined arithmetically across models.
type RiskLevel int

const (
	RiskLow    RiskLevel = 1
	RiskMedium RiskLevel = 2
	RiskHigh   RiskLevel = 3
)

// TradeAction represents the side of a rebalancing transaction
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// IndicatorType identifies an economic indicator. The taxonomy is open:
// unknown types are handled with a default weight, never rejected.
type IndicatorType string

const (
	IndicatorGDP                IndicatorType = "gdp"
	IndicatorInflation          IndicatorType = "inflation"
	IndicatorInterestRate       IndicatorType = "interest_rate"
	IndicatorUnemployment       IndicatorType = "unemployment"
	IndicatorConsumerConfidence IndicatorType = "consumer_confidence"
)

// Impact classifies the expected market effect of an economic indicator
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Position represents a portfolio position
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
}

// MarketValue returns quantity × current price
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// Portfolio is a snapshot of positions keyed by symbol. The analytic core
// never mutates it; add/update/remove belongs to the surrounding service
// layer.
type Portfolio struct {
	ID        string              `json:"id"`
	Positions map[string]Position `json:"positions"`
}

// TotalValue returns the sum of all position market values
func (p Portfolio) TotalValue() float64 {
	total := 0.0
	for _, pos := range p.Positions {
		total += pos.MarketValue()
	}
	return total
}

// EconomicIndicator is a single economic observation
type EconomicIndicator struct {
	Date   time.Time     `json:"date"`
	Type   IndicatorType `json:"type"`
	Source string        `json:"source"`
	Impact Impact        `json:"impact"`
	Value  float64       `json:"value"`
}

// TargetAllocation maps symbol to target weight. Symbols missing from the
// map are treated as target weight 0; a well-formed allocation sums to 1.
type TargetAllocation map[string]float64

// Prediction is the output of a single prediction model. TechnicalScore is
// populated for security-level predictions, AssetAllocation for
// portfolio-level ones.
type Prediction struct {
	Direction       Direction          `json:"direction"`
	ExpectedReturn  float64            `json:"expected_return"`
	Volatility      float64            `json:"volatility"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	TechnicalScore  float64            `json:"technical_score,omitempty"`
	AssetAllocation map[string]float64 `json:"asset_allocation,omitempty"`
}

// PerformanceMetrics describes a model's historical performance
type PerformanceMetrics struct {
	Accuracy float64 `json:"accuracy"` // 0..1
}

// Recommendation is a single actionable suggestion with a confidence score
type Recommendation struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// AggregatedPrediction combines all registered models' predictions into a
// single decision-ready prediction with an overall confidence score.
type AggregatedPrediction struct {
	Direction       Direction          `json:"direction"`
	ExpectedReturn  float64            `json:"expected_return"`
	Volatility      float64            `json:"volatility"`
	RiskLevel       float64            `json:"risk_level"` // weighted ordinal, fractional
	Confidence      float64            `json:"confidence"` // 0..1
	HorizonDays     int                `json:"horizon_days"`
	TechnicalScore  float64            `json:"technical_score,omitempty"`
	AssetAllocation map[string]float64 `json:"asset_allocation,omitempty"`
}

// RebalanceTransaction is a single generated rebalancing trade
type RebalanceTransaction struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Action    TradeAction `json:"action"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	Amount    float64     `json:"amount"` // quantity × price
}

// RiskMetrics is a computed risk-metric record for a series or portfolio
type RiskMetrics struct {
	Volatility   float64 `json:"volatility"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	AnnualReturn float64 `json:"annual_return"`
	CVaR95       float64 `json:"cvar_95"`
}
