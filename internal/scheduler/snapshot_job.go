package scheduler

import (
	"fmt"

	"github.com/aristath/foresight/internal/clients/yahoo"
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/economic"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/internal/modules/risk"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// EconomicSource provides the current set of economic indicator observations
// for sentiment scoring. Returning nil is valid and yields a zero sentiment.
type EconomicSource interface {
	CurrentIndicators() []domain.EconomicIndicator
}

// SnapshotJob computes and persists an analytics snapshot for each tracked
// symbol: risk metrics over fetched price history, the technical indicator
// snapshot, and the current economic sentiment.
type SnapshotJob struct {
	symbols    []string
	period     string
	prices     yahoo.PriceSource
	risk       *risk.Calculator
	indicators *indicators.Calculator
	economic   *economic.Analyzer
	econSource EconomicSource
	repo       *snapshots.Repository
	log        zerolog.Logger
}

// NewSnapshotJob creates the analytics snapshot job. econSource may be nil.
func NewSnapshotJob(
	symbols []string,
	period string,
	prices yahoo.PriceSource,
	riskCalc *risk.Calculator,
	indicatorCalc *indicators.Calculator,
	analyzer *economic.Analyzer,
	econSource EconomicSource,
	repo *snapshots.Repository,
	log zerolog.Logger,
) *SnapshotJob {
	return &SnapshotJob{
		symbols:    symbols,
		period:     period,
		prices:     prices,
		risk:       riskCalc,
		indicators: indicatorCalc,
		economic:   analyzer,
		econSource: econSource,
		repo:       repo,
		log:        log.With().Str("job", "analytics_snapshot").Logger(),
	}
}

// Name returns the job identifier
func (j *SnapshotJob) Name() string { return "analytics_snapshot" }

// Run captures one snapshot per symbol. A failure on one symbol does not stop
// the others; the job reports how many symbols failed.
func (j *SnapshotJob) Run() error {
	sentiment := 0.0
	if j.econSource != nil {
		sentiment = j.economic.SentimentScore(j.econSource.CurrentIndicators())
	}

	failed := 0
	for _, symbol := range j.symbols {
		if err := j.captureSymbol(symbol, sentiment); err != nil {
			j.log.Error().Err(err).Str("symbol", symbol).Msg("Snapshot capture failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("snapshot capture failed for %d of %d symbols", failed, len(j.symbols))
	}

	j.log.Info().Int("symbols", len(j.symbols)).Msg("Analytics snapshots captured")
	return nil
}

func (j *SnapshotJob) captureSymbol(symbol string, sentiment float64) error {
	closes, err := j.prices.DailyCloses(symbol, j.period)
	if err != nil {
		return fmt.Errorf("failed to fetch prices: %w", err)
	}
	if len(closes) == 0 {
		return fmt.Errorf("no price history for %s", symbol)
	}

	metrics := j.risk.MetricsFromValues(closes)
	technical := j.indicators.Snapshot(symbol, closes)

	record := snapshots.FromMetrics(
		symbol,
		metrics,
		technical.RSI,
		technical.SMA20,
		technical.SMA50,
		string(technical.Trend),
		string(technical.Phase),
		sentiment,
	)

	if _, err := j.repo.Save(record); err != nil {
		return err
	}

	return nil
}
