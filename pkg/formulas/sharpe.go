package formulas

// DefaultRiskFreeRate is the risk-free rate used when the caller does not
// supply one (2% annual).
const DefaultRiskFreeRate = 0.02

// SharpeRatio calculates the Sharpe ratio of a return series.
//
// Formula:
//
//	Sharpe = mean(returns - riskFreeRate) / volatility(returns - riskFreeRate)
//
// where volatility is the annualized population standard deviation. Returns 0
// (not NaN) when the excess-return volatility is 0.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate
	}

	vol := AnnualizedVolatility(excess)
	if vol == 0 {
		return 0
	}

	return Mean(excess) / vol
}
