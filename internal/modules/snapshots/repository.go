// Package snapshots persists computed analytics records: risk metrics,
// technical indicator readings and economic sentiment, keyed by symbol and
// capture time. The store is append-only.
package snapshots

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS analytics_snapshots (
    id           TEXT PRIMARY KEY,
    symbol       TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL,
    volatility   REAL NOT NULL,
    max_drawdown REAL NOT NULL,
    sharpe_ratio REAL NOT NULL,
    annual_return REAL NOT NULL DEFAULT 0,
    cvar_95      REAL NOT NULL DEFAULT 0,
    rsi          REAL NOT NULL,
    sma_20       REAL NOT NULL,
    sma_50       REAL NOT NULL,
    trend        TEXT NOT NULL,
    market_phase TEXT NOT NULL,
    sentiment    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_created
    ON analytics_snapshots(symbol, created_at DESC);
`

// ErrNotFound is returned when no snapshot exists for a symbol
var ErrNotFound = errors.New("snapshot not found")

// Record is one persisted analytics snapshot
type Record struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	CreatedAt    time.Time `json:"created_at"`
	Volatility   float64   `json:"volatility"`
	MaxDrawdown  float64   `json:"max_drawdown"`
	SharpeRatio  float64   `json:"sharpe_ratio"`
	AnnualReturn float64   `json:"annual_return"`
	CVaR95       float64   `json:"cvar_95"`
	RSI          float64   `json:"rsi"`
	SMA20        float64   `json:"sma_20"`
	SMA50        float64   `json:"sma_50"`
	Trend        string    `json:"trend"`
	MarketPhase  string    `json:"market_phase"`
	Sentiment    float64   `json:"sentiment"`
}

// Repository stores analytics snapshots in SQLite
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates the repository and applies the schema
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	if _, err := db.Conn().Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply snapshots schema: %w", err)
	}

	return &Repository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}, nil
}

// Save persists a snapshot, assigning an ID and capture time when unset
func (r *Repository) Save(record Record) (Record, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Conn().Exec(`
		INSERT INTO analytics_snapshots
			(id, symbol, created_at, volatility, max_drawdown, sharpe_ratio,
			 annual_return, cvar_95, rsi, sma_20, sma_50, trend, market_phase, sentiment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Symbol, record.CreatedAt,
		record.Volatility, record.MaxDrawdown, record.SharpeRatio,
		record.AnnualReturn, record.CVaR95,
		record.RSI, record.SMA20, record.SMA50,
		record.Trend, record.MarketPhase, record.Sentiment,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to save snapshot for %s: %w", record.Symbol, err)
	}

	r.log.Debug().
		Str("symbol", record.Symbol).
		Str("id", record.ID).
		Msg("Saved analytics snapshot")

	return record, nil
}

// Latest returns the most recent snapshot for a symbol
func (r *Repository) Latest(symbol string) (Record, error) {
	row := r.db.Conn().QueryRow(`
		SELECT id, symbol, created_at, volatility, max_drawdown, sharpe_ratio,
		       annual_return, cvar_95, rsi, sma_20, sma_50, trend, market_phase, sentiment
		FROM analytics_snapshots
		WHERE symbol = ?
		ORDER BY created_at DESC
		LIMIT 1`, symbol)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("latest snapshot for %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load latest snapshot for %s: %w", symbol, err)
	}

	return record, nil
}

// History returns up to limit snapshots for a symbol, newest first
func (r *Repository) History(symbol string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Conn().Query(`
		SELECT id, symbol, created_at, volatility, max_drawdown, sharpe_ratio,
		       annual_return, cvar_95, rsi, sma_20, sma_50, trend, market_phase, sentiment
		FROM analytics_snapshots
		WHERE symbol = ?
		ORDER BY created_at DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history for %s: %w", symbol, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// PruneBefore deletes snapshots captured before the cutoff and reports how
// many rows were removed.
func (r *Repository) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Conn().Exec(
		`DELETE FROM analytics_snapshots WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Pruned old snapshots")
	}

	return deleted, nil
}

// FromMetrics assembles a record from the computed analytics for one symbol
func FromMetrics(symbol string, metrics domain.RiskMetrics, rsi, sma20, sma50 float64, trend, phase string, sentiment float64) Record {
	return Record{
		Symbol:       symbol,
		Volatility:   metrics.Volatility,
		MaxDrawdown:  metrics.MaxDrawdown,
		SharpeRatio:  metrics.SharpeRatio,
		AnnualReturn: metrics.AnnualReturn,
		CVaR95:       metrics.CVaR95,
		RSI:          rsi,
		SMA20:        sma20,
		SMA50:        sma50,
		Trend:        trend,
		MarketPhase:  phase,
		Sentiment:    sentiment,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (Record, error) {
	var record Record
	err := s.Scan(
		&record.ID, &record.Symbol, &record.CreatedAt,
		&record.Volatility, &record.MaxDrawdown, &record.SharpeRatio,
		&record.AnnualReturn, &record.CVaR95,
		&record.RSI, &record.SMA20, &record.SMA50,
		&record.Trend, &record.MarketPhase, &record.Sentiment,
	)
	return record, err
}
