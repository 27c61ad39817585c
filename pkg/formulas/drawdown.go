package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline over a value series.
//
// Formula:
//
//	drawdown_t = (peak_t - value_t) / peak_t
//	where peak_t is the running maximum up to t
//
// Single pass over the series. Returns a fraction in [0, 1]; an empty series
// or a non-positive peak yields 0.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDrawdown := 0.0

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
