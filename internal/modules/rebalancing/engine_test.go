package rebalancing

import (
	"testing"
	"time"

	"github.com/aristath/foresight/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(0, 0, 0, zerolog.Nop())
}

func twoAssetPortfolio() domain.Portfolio {
	// Total value 10,000: A 60%, B 40%
	return domain.Portfolio{
		ID: "test",
		Positions: map[string]domain.Position{
			"A": {Symbol: "A", Quantity: 60, CurrentPrice: 100},
			"B": {Symbol: "B", Quantity: 80, CurrentPrice: 50},
		},
	}
}

func TestTargetWeights_MissingSymbolsAreZero(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	weights := e.TargetWeights(portfolio.Positions, domain.TargetAllocation{"A": 0.7})

	assert.Equal(t, 0.7, weights["A"])
	assert.Equal(t, 0.0, weights["B"])
}

func TestGenerateTransactions(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	weights := map[string]float64{"A": 0.5, "B": 0.5}
	transactions := e.GenerateTransactions(portfolio.Positions, weights, portfolio.TotalValue())

	require.Len(t, transactions, 2)

	// Sorted by symbol: A first
	sellA := transactions[0]
	assert.Equal(t, "A", sellA.Symbol)
	assert.Equal(t, domain.ActionSell, sellA.Action)
	assert.InDelta(t, 1000.0, sellA.Amount, 1e-9)
	assert.InDelta(t, 10.0, sellA.Quantity, 1e-9) // 1000 / price 100
	assert.NotEmpty(t, sellA.ID)

	buyB := transactions[1]
	assert.Equal(t, "B", buyB.Symbol)
	assert.Equal(t, domain.ActionBuy, buyB.Action)
	assert.InDelta(t, 1000.0, buyB.Amount, 1e-9)
	assert.InDelta(t, 20.0, buyB.Quantity, 1e-9) // 1000 / price 50
}

func TestGenerateTransactions_NoDiffNoTransaction(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	weights := map[string]float64{"A": 0.6, "B": 0.4}
	transactions := e.GenerateTransactions(portfolio.Positions, weights, portfolio.TotalValue())

	assert.Empty(t, transactions)
}

func TestGenerateTransactions_SkipsZeroPrice(t *testing.T) {
	e := newTestEngine()
	positions := map[string]domain.Position{
		"X": {Symbol: "X", Quantity: 10, CurrentPrice: 0},
	}

	transactions := e.GenerateTransactions(positions, map[string]float64{"X": 1.0}, 1000)
	assert.Empty(t, transactions)
}

func TestOptimize_NetsBySymbol(t *testing.T) {
	e := newTestEngine()
	now := time.Now().UTC()

	transactions := []domain.RebalanceTransaction{
		{ID: "1", CreatedAt: now, Symbol: "A", Action: domain.ActionBuy, Quantity: 5, Price: 100, Amount: 500},
		{ID: "2", CreatedAt: now, Symbol: "A", Action: domain.ActionSell, Quantity: 2, Price: 100, Amount: 200},
		{ID: "3", CreatedAt: now, Symbol: "B", Action: domain.ActionSell, Quantity: 8, Price: 50, Amount: 400},
	}

	optimized := e.Optimize(transactions)
	require.Len(t, optimized, 2)

	a := optimized[0]
	assert.Equal(t, "A", a.Symbol)
	assert.Equal(t, domain.ActionBuy, a.Action)
	assert.InDelta(t, 300.0, a.Amount, 1e-9)
	assert.InDelta(t, 3.0, a.Quantity, 1e-9)

	b := optimized[1]
	assert.Equal(t, "B", b.Symbol)
	assert.Equal(t, domain.ActionSell, b.Action)
	assert.InDelta(t, 400.0, b.Amount, 1e-9)
}

func TestOptimize_DropsBelowMinimumTradeSize(t *testing.T) {
	e := newTestEngine()
	now := time.Now().UTC()

	// Net 50 with the default minimum of 100: dropped
	transactions := []domain.RebalanceTransaction{
		{ID: "1", CreatedAt: now, Symbol: "A", Action: domain.ActionBuy, Quantity: 2.5, Price: 100, Amount: 250},
		{ID: "2", CreatedAt: now, Symbol: "A", Action: domain.ActionSell, Quantity: 2, Price: 100, Amount: 200},
	}

	assert.Empty(t, e.Optimize(transactions))
}

func TestCost(t *testing.T) {
	e := newTestEngine()
	now := time.Now().UTC()

	transactions := []domain.RebalanceTransaction{
		{ID: "1", CreatedAt: now, Symbol: "A", Action: domain.ActionBuy, Quantity: 10, Price: 100, Amount: 1000},
		{ID: "2", CreatedAt: now, Symbol: "B", Action: domain.ActionSell, Quantity: 20, Price: 50, Amount: 1000},
	}

	// 2000 × 0.001
	assert.InDelta(t, 2.0, e.Cost(transactions), 1e-9)
	assert.Equal(t, 0.0, e.Cost(nil))
}

func TestWeightDeviations(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	deviations := e.WeightDeviations(portfolio.Positions, map[string]float64{"A": 0.5, "B": 0.5})

	assert.InDelta(t, 0.10, deviations["A"], 1e-9)
	assert.InDelta(t, 0.10, deviations["B"], 1e-9)
}

func TestWeightDeviations_EmptyPortfolio(t *testing.T) {
	e := newTestEngine()

	deviations := e.WeightDeviations(nil, map[string]float64{"A": 0.5})
	assert.Equal(t, 0.5, deviations["A"])
}

func TestNeedsRebalancing_Threshold(t *testing.T) {
	e := newTestEngine()

	assert.False(t, e.NeedsRebalancing(0.05), "exactly at threshold is not flagged")
	assert.True(t, e.NeedsRebalancing(0.0501))
	assert.False(t, e.NeedsRebalancing(0.01))
}

func TestBuildPlan_TwoAssetRebalance(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	plan := e.BuildPlan(portfolio, domain.TargetAllocation{"A": 0.5, "B": 0.5})

	require.Len(t, plan.Transactions, 2)
	bySymbol := map[string]domain.RebalanceTransaction{}
	for _, tx := range plan.Transactions {
		bySymbol[tx.Symbol] = tx
	}

	assert.Equal(t, domain.ActionSell, bySymbol["A"].Action)
	assert.InDelta(t, 1000.0, bySymbol["A"].Amount, 1e-9)
	assert.Equal(t, domain.ActionBuy, bySymbol["B"].Action)
	assert.InDelta(t, 1000.0, bySymbol["B"].Amount, 1e-9)

	assert.InDelta(t, 2.0, plan.EstimatedCost, 1e-9)
}

func TestBuildPlan_WithinThresholdNoTransactions(t *testing.T) {
	e := newTestEngine()
	portfolio := twoAssetPortfolio()

	// Deviation is 2% on each side, below the 5% threshold
	plan := e.BuildPlan(portfolio, domain.TargetAllocation{"A": 0.58, "B": 0.42})

	assert.Empty(t, plan.Transactions)
	assert.Equal(t, 0.0, plan.EstimatedCost)
}
