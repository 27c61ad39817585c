package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/aggregation"
	"github.com/aristath/foresight/internal/modules/aggregation/models"
	"github.com/aristath/foresight/internal/modules/economic"
	"github.com/aristath/foresight/internal/modules/indicators"
	"github.com/aristath/foresight/internal/modules/rebalancing"
	"github.com/aristath/foresight/internal/modules/risk"
	"github.com/aristath/foresight/internal/modules/snapshots"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	log := zerolog.Nop()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "snapshots.db"),
		Name: "snapshots",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := snapshots.NewRepository(db, log)
	require.NoError(t, err)

	analyzer, err := economic.NewAnalyzer(economic.DefaultConfig(), log)
	require.NoError(t, err)

	indicatorCalc := indicators.NewCalculator(log)
	aggregator, err := aggregation.NewAggregator([]aggregation.WeightedModel{
		{Model: models.New("momentum", indicatorCalc, log), Weight: 1.0},
	}, log)
	require.NoError(t, err)

	return New(Config{
		Log:         log,
		Port:        0,
		DevMode:     true,
		SnapshotsDB: db,

		RiskCalculator:      risk.NewCalculator(0, log),
		IndicatorCalculator: indicatorCalc,
		EconomicAnalyzer:    analyzer,
		RebalancingEngine:   rebalancing.NewEngine(0, 0, 0, log),
		Aggregator:          aggregator,
		SnapshotRepo:        repo,
	})
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRiskMetricsRoute(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/risk/metrics", map[string]interface{}{
		"id":     "p1",
		"values": []float64{100, 102, 101, 105, 103},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID      string `json:"id"`
		Metrics struct {
			Volatility  float64 `json:"volatility"`
			MaxDrawdown float64 `json:"max_drawdown"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "p1", body.ID)
	assert.Greater(t, body.Metrics.Volatility, 0.0)
}

func TestRiskCorrelationRejectsLengthMismatch(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/risk/correlation", map[string]interface{}{
		"a": []float64{1, 2, 3},
		"b": []float64{1, 2},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictionMarketRoute(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/predictions/market", map[string]interface{}{
		"series":       []float64{100, 101, 102, 103, 104, 105},
		"horizon_days": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "direction")
	assert.Contains(t, body, "confidence")
}

func TestSnapshotLatestReturns404WhenEmpty(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/snapshots/AAPL/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnapshotTriggerWithoutJobReportsError(t *testing.T) {
	s := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/system/jobs/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}
