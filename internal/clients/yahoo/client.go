// Package yahoo fetches price data from Yahoo Finance. It feeds the scheduled
// analytics snapshots with daily closing prices.
package yahoo

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// HistoricalPrice is one daily OHLCV bar
type HistoricalPrice struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// PriceSource provides daily price history for a symbol
type PriceSource interface {
	DailyCloses(symbol, period string) ([]float64, error)
}

// Client fetches prices via the Yahoo Finance API
type Client struct {
	maxRetries int
	log        zerolog.Logger
}

// NewClient creates a Yahoo Finance client. Transient fetch failures are
// retried with exponential backoff.
func NewClient(maxRetries int, log zerolog.Logger) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		maxRetries: maxRetries,
		log:        log.With().Str("client", "yahoo").Logger(),
	}
}

// History fetches daily bars for a symbol over a Yahoo period string
// (e.g. "1mo", "6mo", "1y").
func (c *Client) History(symbol, period string) ([]HistoricalPrice, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Retrying price history fetch")
			time.Sleep(wait)
		}

		bars, err := c.fetchHistory(symbol, period)
		if err != nil {
			lastErr = err
			continue
		}
		return bars, nil
	}

	return nil, fmt.Errorf("failed to fetch history for %s after %d attempts: %w", symbol, c.maxRetries, lastErr)
}

func (c *Client) fetchHistory(symbol, period string) ([]HistoricalPrice, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	prices := make([]HistoricalPrice, 0, len(bars))
	for _, bar := range bars {
		prices = append(prices, HistoricalPrice{
			Date:     bar.Date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			Volume:   int64(bar.Volume),
			AdjClose: bar.AdjClose,
		})
	}

	return prices, nil
}

// DailyCloses fetches the chronological daily closing prices for a symbol
func (c *Client) DailyCloses(symbol, period string) ([]float64, error) {
	bars, err := c.History(symbol, period)
	if err != nil {
		return nil, err
	}

	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		if bar.Close > 0 {
			closes = append(closes, bar.Close)
		}
	}

	return closes, nil
}
