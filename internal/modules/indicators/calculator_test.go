package indicators

import (
	"testing"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestCalculator() *Calculator {
	return NewCalculator(zerolog.Nop())
}

func TestSMA(t *testing.T) {
	c := newTestCalculator()

	assert.Equal(t, 4.0, c.SMA([]float64{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, 0.0, c.SMA([]float64{1, 2}, 3), "insufficient points yield 0")
	assert.Equal(t, 0.0, c.SMA(nil, 3))
}

func TestEMA(t *testing.T) {
	c := newTestCalculator()

	assert.Equal(t, 0.0, c.EMA(nil, 10))
	assert.Equal(t, 10.0, c.EMA([]float64{10}, 10), "seeded with first value")

	// period 2, multiplier 2/3: 1 -> 1.6667 -> 2.5556
	assert.InDelta(t, 2.5556, c.EMA([]float64{1, 2, 3}, 2), 0.0001)
}

func TestRSI(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name     string
		prices   []float64
		period   int
		expected float64
	}{
		{
			name:     "insufficient data",
			prices:   []float64{1, 2, 3},
			period:   14,
			expected: 0,
		},
		{
			name:     "all gains",
			prices:   []float64{10, 11, 12, 13},
			period:   3,
			expected: 100,
		},
		{
			name:     "all losses",
			prices:   []float64{13, 12, 11, 10},
			period:   3,
			expected: 0,
		},
		{
			name:     "flat window is neutral",
			prices:   []float64{10, 10, 10, 10},
			period:   3,
			expected: 50,
		},
		{
			name:     "mixed gains and losses",
			prices:   []float64{10, 11, 10.5, 11.5},
			period:   3,
			expected: 80, // gains 2, losses 0.5, RS 4
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, c.RSI(tt.prices, tt.period), 1e-9)
		})
	}
}

func TestRSI_UsesFirstTransitionsOnly(t *testing.T) {
	c := newTestCalculator()

	// The tail beyond the first `period` transitions must not affect the result
	base := []float64{10, 11, 10.5, 11.5}
	extended := append(append([]float64{}, base...), 5, 50, 2)

	assert.Equal(t, c.RSI(base, 3), c.RSI(extended, 3))
}

func TestMACD(t *testing.T) {
	c := newTestCalculator()

	flat := make([]float64, 40)
	for i := range flat {
		flat[i] = 50
	}
	result := c.MACD(flat)
	assert.InDelta(t, 0.0, result.MACD, 1e-9)
	assert.InDelta(t, 0.0, result.Signal, 1e-9)

	rising := make([]float64, 40)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	result = c.MACD(rising)
	assert.Greater(t, result.MACD, 0.0, "fast EMA leads in an uptrend")
	// Signal over a one-element series collapses to the MACD value
	assert.Equal(t, result.MACD, result.Signal)
	assert.Equal(t, 0.0, result.Histogram)
}

func TestTrend(t *testing.T) {
	c := newTestCalculator()

	tests := []struct {
		name     string
		prices   []float64
		expected domain.Trend
	}{
		{"empty", nil, domain.TrendSideways},
		{"single point", []float64{100}, domain.TrendSideways},
		{"zero first value", []float64{0, 100}, domain.TrendSideways},
		{"above threshold up", []float64{100, 102}, domain.TrendUp},
		{"below threshold down", []float64{100, 98}, domain.TrendDown},
		{"within band", []float64{100, 100.5}, domain.TrendSideways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Trend(tt.prices))
		})
	}
}

func TestMarketPhase(t *testing.T) {
	c := newTestCalculator()

	rising := make([]float64, 50)
	falling := make([]float64, 50)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 150 - float64(i)
	}

	// Long uptrend with a declining recent window
	correction := make([]float64, 0, 50)
	for i := 0; i < 30; i++ {
		correction = append(correction, 100+float64(i)*3)
	}
	for i := 0; i < 20; i++ {
		correction = append(correction, 187-float64(i))
	}

	// Long downtrend with a rising recent window
	recovery := make([]float64, 0, 50)
	for i := 0; i < 30; i++ {
		recovery = append(recovery, 150-float64(i)*3)
	}
	for i := 0; i < 20; i++ {
		recovery = append(recovery, 60+float64(i))
	}

	flat := make([]float64, 50)
	for i := range flat {
		flat[i] = 100
	}

	assert.Equal(t, PhaseBullish, c.MarketPhase(rising))
	assert.Equal(t, PhaseBearish, c.MarketPhase(falling))
	assert.Equal(t, PhaseCorrection, c.MarketPhase(correction))
	assert.Equal(t, PhaseRecovery, c.MarketPhase(recovery))
	assert.Equal(t, PhaseSideways, c.MarketPhase(flat))
}

func TestSnapshot(t *testing.T) {
	c := newTestCalculator()

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}

	snapshot := c.Snapshot("AAPL", prices)

	assert.Equal(t, "AAPL", snapshot.Symbol)
	assert.Greater(t, snapshot.SMA20, 0.0)
	assert.Greater(t, snapshot.SMA50, 0.0)
	assert.Equal(t, domain.TrendUp, snapshot.Trend)
	assert.Equal(t, PhaseBullish, snapshot.Phase)
	assert.NotNil(t, snapshot.Bollinger)
}
