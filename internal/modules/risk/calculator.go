// Package risk computes portfolio risk metrics over return and value series:
// annualized volatility, maximum drawdown, Pearson correlation and Sharpe
// ratio. All calculations are pure functions over immutable inputs.
package risk

import (
	"fmt"

	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/formulas"
	"github.com/rs/zerolog"
)

// DefaultCVaRConfidence is the confidence level for the tail-loss estimate
const DefaultCVaRConfidence = 0.95

// Calculator computes risk metrics over price/return series
type Calculator struct {
	riskFreeRate float64
	log          zerolog.Logger
}

// NewCalculator creates a new risk metrics calculator. A zero riskFreeRate
// selects the 2% default.
func NewCalculator(riskFreeRate float64, log zerolog.Logger) *Calculator {
	if riskFreeRate == 0 {
		riskFreeRate = formulas.DefaultRiskFreeRate
	}
	return &Calculator{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("component", "risk_calculator").Logger(),
	}
}

// Volatility returns the annualized volatility of a return series
// (population standard deviation × √252). An empty series yields 0.
func (c *Calculator) Volatility(returns []float64) float64 {
	return formulas.AnnualizedVolatility(returns)
}

// MaxDrawdown returns the maximum peak-to-trough decline of a value series
// as a fraction in [0, 1]. An empty series yields 0.
func (c *Calculator) MaxDrawdown(values []float64) float64 {
	return formulas.MaxDrawdown(values)
}

// Correlation returns the Pearson correlation coefficient between two series.
// Series of differing lengths are rejected with ErrLengthMismatch; a constant
// series (zero denominator) yields 0 rather than an error.
func (c *Calculator) Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("correlation of %d vs %d points: %w", len(a), len(b), domain.ErrLengthMismatch)
	}
	return formulas.Correlation(a, b), nil
}

// SharpeRatio returns the Sharpe ratio of a return series against the
// configured risk-free rate. Zero excess volatility yields 0.
func (c *Calculator) SharpeRatio(returns []float64) float64 {
	return formulas.SharpeRatio(returns, c.riskFreeRate)
}

// CVaR returns the historical Conditional Value at Risk of a return series
// at the default 95% confidence level: the mean of the worst 5% of returns.
func (c *Calculator) CVaR(returns []float64) float64 {
	return formulas.CalculateCVaR(returns, DefaultCVaRConfidence)
}

// AnnualReturn returns the compound annualized return of a return series
func (c *Calculator) AnnualReturn(returns []float64) float64 {
	return formulas.CalculateAnnualReturn(returns)
}

// RiskFreeRate returns the configured risk-free rate
func (c *Calculator) RiskFreeRate() float64 {
	return c.riskFreeRate
}

// MetricsFromValues computes the full risk-metric record for a value series.
// Returns are derived from consecutive values; drawdown runs over the values
// themselves.
func (c *Calculator) MetricsFromValues(values []float64) domain.RiskMetrics {
	returns := formulas.CalculateReturns(values)

	metrics := domain.RiskMetrics{
		Volatility:   c.Volatility(returns),
		MaxDrawdown:  c.MaxDrawdown(values),
		SharpeRatio:  c.SharpeRatio(returns),
		AnnualReturn: c.AnnualReturn(returns),
		CVaR95:       c.CVaR(returns),
	}

	c.log.Debug().
		Int("points", len(values)).
		Float64("volatility", metrics.Volatility).
		Float64("max_drawdown", metrics.MaxDrawdown).
		Msg("Computed risk metrics")

	return metrics
}
