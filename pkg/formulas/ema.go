package formulas

// CalculateSMA calculates the Simple Moving Average over the trailing window.
//
// Formula: mean of the last `period` values.
//
// Returns 0 when fewer than `period` points exist.
func CalculateSMA(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}

	return Mean(closes[len(closes)-period:])
}

// CalculateEMA calculates the Exponential Moving Average over a full series.
//
// EMA Formula:
//
//	multiplier = 2 / (period + 1)
//	EMA_0 = Price_0
//	EMA_t = (Price_t - EMA_{t-1}) × multiplier + EMA_{t-1}
//
// The average is seeded with the first value of the series, so short series
// still produce a value. Returns 0 for an empty series.
func CalculateEMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}

	multiplier := 2.0 / float64(period+1)
	ema := closes[0]
	for _, price := range closes[1:] {
		ema = (price-ema)*multiplier + ema
	}

	return ema
}
