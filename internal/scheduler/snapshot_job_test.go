package scheduler

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/internal/modules/economic"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/internal/modules/risk"
	"github.com/aristath/foresight/internal/modules/snapshots"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	closes map[string][]float64
	err    error
}

func (s *stubPrices) DailyCloses(symbol, period string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.closes[symbol], nil
}

type stubEconomics struct {
	indicators []domain.EconomicIndicator
}

func (s *stubEconomics) CurrentIndicators() []domain.EconomicIndicator {
	return s.indicators
}

func testRepo(t *testing.T) *snapshots.Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "snapshots.db"),
		Name: "snapshots",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := snapshots.NewRepository(db, zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func testJob(t *testing.T, symbols []string, prices *stubPrices, econ EconomicSource) (*SnapshotJob, *snapshots.Repository) {
	t.Helper()

	analyzer, err := economic.NewAnalyzer(economic.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)

	repo := testRepo(t)
	job := NewSnapshotJob(
		symbols, "6mo", prices,
		risk.NewCalculator(0, zerolog.Nop()),
		indicators.NewCalculator(zerolog.Nop()),
		analyzer, econ, repo, zerolog.Nop(),
	)
	return job, repo
}

func series(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i%7) - float64(i%3)
	}
	return prices
}

func TestSnapshotJob_CapturesAllSymbols(t *testing.T) {
	prices := &stubPrices{closes: map[string][]float64{
		"AAPL": series(60),
		"MSFT": series(60),
	}}
	job, repo := testJob(t, []string{"AAPL", "MSFT"}, prices, nil)

	require.NoError(t, job.Run())

	for _, symbol := range []string{"AAPL", "MSFT"} {
		record, err := repo.Latest(symbol)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, record.Volatility, 0.0)
		assert.NotEmpty(t, record.MarketPhase)
		assert.Zero(t, record.Sentiment)
	}
}

func TestSnapshotJob_SentimentFromEconomicSource(t *testing.T) {
	prices := &stubPrices{closes: map[string][]float64{"AAPL": series(60)}}
	econ := &stubEconomics{indicators: []domain.EconomicIndicator{
		{Type: domain.IndicatorGDP, Value: 100, Impact: domain.ImpactPositive},
	}}
	job, repo := testJob(t, []string{"AAPL"}, prices, econ)

	require.NoError(t, job.Run())

	record, err := repo.Latest("AAPL")
	require.NoError(t, err)
	// 100 × 0.30 (gdp weight) × 0.30 (positive impact)
	assert.InDelta(t, 9.0, record.Sentiment, 1e-9)
}

func TestSnapshotJob_ReportsFailedSymbols(t *testing.T) {
	prices := &stubPrices{closes: map[string][]float64{
		"AAPL": series(60),
		// MSFT has no history
	}}
	job, repo := testJob(t, []string{"AAPL", "MSFT"}, prices, nil)

	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")

	// The healthy symbol was still captured
	_, err = repo.Latest("AAPL")
	assert.NoError(t, err)
}

func TestSnapshotJob_FetchErrorFailsSymbol(t *testing.T) {
	prices := &stubPrices{err: errors.New("rate limited")}
	job, _ := testJob(t, []string{"AAPL"}, prices, nil)

	assert.Error(t, job.Run())
}

func TestSnapshotJob_Name(t *testing.T) {
	job, _ := testJob(t, nil, &stubPrices{}, nil)
	assert.Equal(t, "analytics_snapshot", job.Name())
}
