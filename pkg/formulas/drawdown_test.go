package formulas

import (
	"math"
	"testing"
)

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		expected  float64
		tolerance float64
	}{
		{
			name:     "empty series",
			values:   []float64{},
			expected: 0.0,
		},
		{
			name:     "single value",
			values:   []float64{100.0},
			expected: 0.0,
		},
		{
			name:     "monotonically rising",
			values:   []float64{100, 105, 110, 120},
			expected: 0.0,
		},
		{
			name:      "peak 100 trough 80",
			values:    []float64{100, 90, 95, 80, 120},
			expected:  0.20,
			tolerance: 1e-9,
		},
		{
			name:      "drawdown after later peak",
			values:    []float64{100, 150, 120, 160, 140},
			expected:  0.20, // 150 -> 120
			tolerance: 1e-9,
		},
		{
			name:     "zero peak guarded",
			values:   []float64{0, 0, 0},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MaxDrawdown(tt.values)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("MaxDrawdown() = %v, want %v (±%v)", result, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	tests := []struct {
		name         string
		returns      []float64
		riskFreeRate float64
		expected     float64
		tolerance    float64
	}{
		{
			name:         "empty returns",
			returns:      []float64{},
			riskFreeRate: DefaultRiskFreeRate,
			expected:     0.0,
		},
		{
			name:         "zero excess volatility",
			returns:      []float64{0.02, 0.02, 0.02},
			riskFreeRate: 0.02,
			expected:     0.0,
		},
		{
			name:         "constant returns at any rate",
			returns:      makeSeries(0.05, 30),
			riskFreeRate: 0.02,
			expected:     0.0, // no spread means no defined ratio, falls back to 0
		},
		{
			name:         "positive excess returns",
			returns:      []float64{0.06, 0.02, 0.04, 0.08, 0.05},
			riskFreeRate: 0.02,
			expected:     0.0945, // mean 0.03 / (0.02*sqrt(252))
			tolerance:    0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SharpeRatio(tt.returns, tt.riskFreeRate)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("SharpeRatio() = %v, want %v (±%v)", result, tt.expected, tt.tolerance)
			}
		})
	}
}
