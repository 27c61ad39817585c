package formulas

import (
	"github.com/markcheno/go-talib"
)

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// BollingerPosition represents where price is relative to Bollinger Bands
// Range: 0.0 (at lower band) to 1.0 (at upper band)
type BollingerPosition struct {
	Position float64        `json:"position"` // 0.0 to 1.0
	Bands    BollingerBands `json:"bands"`
}

// CalculateBollingerBands calculates Bollinger Bands
//
// Bollinger Bands Formula:
//
//	Middle Band = N-day SMA
//	Upper Band = Middle + (multiplier × std deviation)
//	Lower Band = Middle - (multiplier × std deviation)
//
// Returns nil if fewer than `length` points exist.
func CalculateBollingerBands(closes []float64, length int, stdDevMultiplier float64) *BollingerBands {
	if len(closes) < length {
		return nil
	}

	// MAType 0 = SMA (Simple Moving Average)
	upper, middle, lower := talib.BBands(closes, length, stdDevMultiplier, stdDevMultiplier, 0)

	if len(upper) > 0 && !isNaN(upper[len(upper)-1]) {
		return &BollingerBands{
			Upper:  upper[len(upper)-1],
			Middle: middle[len(middle)-1],
			Lower:  lower[len(lower)-1],
		}
	}

	return nil
}

// CalculateBollingerPosition calculates where current price is within the
// Bollinger Bands. Returns 0.0 if at lower band, 0.5 if at middle, 1.0 if at
// upper band.
//
// Formula: (Price - Lower) / (Upper - Lower)
func CalculateBollingerPosition(closes []float64, length int, stdDevMultiplier float64) *BollingerPosition {
	if len(closes) == 0 {
		return nil
	}

	bands := CalculateBollingerBands(closes, length, stdDevMultiplier)
	if bands == nil {
		return nil
	}

	currentPrice := closes[len(closes)-1]
	bandWidth := bands.Upper - bands.Lower

	if bandWidth == 0 {
		// Bands are collapsed, price is at middle
		return &BollingerPosition{
			Position: 0.5,
			Bands:    *bands,
		}
	}

	position := (currentPrice - bands.Lower) / bandWidth

	// Price can close outside the bands
	if position < 0.0 {
		position = 0.0
	}
	if position > 1.0 {
		position = 1.0
	}

	return &BollingerPosition{
		Position: position,
		Bands:    *bands,
	}
}
