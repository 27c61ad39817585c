// Package indicators computes technical indicators over chronological price
// series: moving averages, RSI, MACD, Bollinger bands and trend/market-phase
// classification.
package indicators

import (
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
)

// Indicator period defaults
const (
	RSIPeriod     = 14
	SMAShort      = 20
	SMALong       = 50
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignalLen = 9

	BollingerLength = 20
	BollingerStd    = 2.0

	// RecentWindow is the number of trailing points compared against the full
	// series for market-phase classification.
	RecentWindow = 20

	// TrendThreshold is the percentage change beyond which a series is
	// classified as trending (±1%).
	TrendThreshold = 0.01
)

// MarketPhase classifies where a series sits in the market cycle
type MarketPhase string

const (
	PhaseBullish    MarketPhase = "bullish"
	PhaseBearish    MarketPhase = "bearish"
	PhaseRecovery   MarketPhase = "recovery"
	PhaseCorrection MarketPhase = "correction"
	PhaseSideways   MarketPhase = "sideways"
)

// MACDResult holds the MACD line, its signal line and the histogram
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// Snapshot is a full technical-indicator snapshot for one symbol
type Snapshot struct {
	Symbol    string                      `json:"symbol"`
	SMA20     float64                     `json:"sma_20"`
	SMA50     float64                     `json:"sma_50"`
	EMA12     float64                     `json:"ema_12"`
	EMA26     float64                     `json:"ema_26"`
	RSI       float64                     `json:"rsi"`
	MACD      MACDResult                  `json:"macd"`
	Bollinger *formulas.BollingerPosition `json:"bollinger,omitempty"`
	Trend     domain.Trend                `json:"trend"`
	Phase     MarketPhase                 `json:"phase"`
}

// Calculator computes technical indicators over price series
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new technical indicator calculator
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("component", "indicator_calculator").Logger(),
	}
}

// SMA returns the simple moving average of the trailing `period` values, or 0
// when fewer than `period` points exist.
func (c *Calculator) SMA(prices []float64, period int) float64 {
	return formulas.CalculateSMA(prices, period)
}

// EMA returns the exponential moving average over the whole series, seeded
// with the first value.
func (c *Calculator) EMA(prices []float64, period int) float64 {
	return formulas.CalculateEMA(prices, period)
}

// RSI calculates the Relative Strength Index over the first `period` price
// transitions, using simple (non-smoothed) gain/loss averaging.
//
// Formula:
//
//	RS = sum(gains) / sum(losses)
//	RSI = 100 - 100/(1+RS)
//
// Returns 0 when fewer than period+1 points exist. A loss-free window yields
// 100; a flat window yields the neutral 50.
func (c *Calculator) RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}

	gains := 0.0
	losses := 0.0
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}

	rs := gains / losses
	return 100 - 100/(1+rs)
}

// MACD calculates the Moving Average Convergence Divergence line as
// EMA(12) − EMA(26). The signal line is EMA(9) applied to the single MACD
// value, which collapses to that value; a rolling MACD series is not kept.
func (c *Calculator) MACD(prices []float64) MACDResult {
	macd := formulas.CalculateEMA(prices, MACDFast) - formulas.CalculateEMA(prices, MACDSlow)
	signal := formulas.CalculateEMA([]float64{macd}, MACDSignalLen)

	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}

// Trend classifies a series by the percentage change from first to last
// value: above +1% is up, below −1% is down, anything else is sideways.
func (c *Calculator) Trend(prices []float64) domain.Trend {
	if len(prices) < 2 || prices[0] == 0 {
		return domain.TrendSideways
	}

	change := (prices[len(prices)-1] - prices[0]) / prices[0]
	switch {
	case change > TrendThreshold:
		return domain.TrendUp
	case change < -TrendThreshold:
		return domain.TrendDown
	default:
		return domain.TrendSideways
	}
}

// MarketPhase classifies the market cycle by comparing the trend of the last
// RecentWindow points against the trend of the full series.
func (c *Calculator) MarketPhase(prices []float64) MarketPhase {
	fullTrend := c.Trend(prices)

	recent := prices
	if len(prices) > RecentWindow {
		recent = prices[len(prices)-RecentWindow:]
	}
	recentTrend := c.Trend(recent)

	switch {
	case fullTrend == domain.TrendUp && recentTrend == domain.TrendUp:
		return PhaseBullish
	case fullTrend == domain.TrendDown && recentTrend == domain.TrendDown:
		return PhaseBearish
	case fullTrend == domain.TrendDown && recentTrend == domain.TrendUp:
		return PhaseRecovery
	case fullTrend == domain.TrendUp && recentTrend == domain.TrendDown:
		return PhaseCorrection
	default:
		return PhaseSideways
	}
}

// Snapshot computes the full indicator snapshot for one symbol
func (c *Calculator) Snapshot(symbol string, prices []float64) Snapshot {
	snapshot := Snapshot{
		Symbol:    symbol,
		SMA20:     c.SMA(prices, SMAShort),
		SMA50:     c.SMA(prices, SMALong),
		EMA12:     c.EMA(prices, MACDFast),
		EMA26:     c.EMA(prices, MACDSlow),
		RSI:       c.RSI(prices, RSIPeriod),
		MACD:      c.MACD(prices),
		Bollinger: formulas.CalculateBollingerPosition(prices, BollingerLength, BollingerStd),
		Trend:     c.Trend(prices),
		Phase:     c.MarketPhase(prices),
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("points", len(prices)).
		Str("trend", string(snapshot.Trend)).
		Msg("Computed indicator snapshot")

	return snapshot
}
