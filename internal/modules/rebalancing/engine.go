// Package rebalancing converts current positions plus a target allocation
// into a minimal, cost-aware set of transactions.
package rebalancing

import (
	"sort"
	"time"

	"github.com/aristath/foresight/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine defaults
const (
	DefaultFeeRate      = 0.001 // 0.1% per transaction
	DefaultMinTradeSize = 100.0 // netted amounts below this are dropped

	// RebalanceThreshold is the weight deviation beyond which a symbol is
	// flagged for rebalancing (5%).
	RebalanceThreshold = 0.05
)

// Plan is the full output of a rebalancing run
type Plan struct {
	Transactions  []domain.RebalanceTransaction `json:"transactions"`
	Deviations    map[string]float64            `json:"deviations"`
	EstimatedCost float64                       `json:"estimated_cost"`
}

// Engine generates and optimizes rebalancing transactions
type Engine struct {
	feeRate      float64
	minTradeSize float64
	threshold    float64
	log          zerolog.Logger
}

// NewEngine creates a rebalancing engine. Zero values select the defaults
// (0.1% fee, 100 minimum trade size, 5% threshold).
func NewEngine(feeRate, minTradeSize, threshold float64, log zerolog.Logger) *Engine {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	if minTradeSize == 0 {
		minTradeSize = DefaultMinTradeSize
	}
	if threshold == 0 {
		threshold = RebalanceThreshold
	}
	return &Engine{
		feeRate:      feeRate,
		minTradeSize: minTradeSize,
		threshold:    threshold,
		log:          log.With().Str("component", "rebalancing_engine").Logger(),
	}
}

// TargetWeights resolves the target weight for every current position.
// Symbols missing from the allocation get target weight 0.
func (e *Engine) TargetWeights(positions map[string]domain.Position, allocation domain.TargetAllocation) map[string]float64 {
	weights := make(map[string]float64, len(positions))
	for symbol := range positions {
		weights[symbol] = allocation[symbol]
	}
	return weights
}

// GenerateTransactions emits one transaction per position whose market value
// differs from its target value.
//
//	targetValue = portfolioValue × targetWeight
//	diff = targetValue − currentValue
//	quantity = |diff| / price, buy when diff > 0, sell when diff < 0
//
// Positions with a non-positive price are skipped. Output is ordered by
// symbol for reproducibility.
func (e *Engine) GenerateTransactions(
	positions map[string]domain.Position,
	targetWeights map[string]float64,
	portfolioValue float64,
) []domain.RebalanceTransaction {
	symbols := sortedSymbols(positions)

	transactions := make([]domain.RebalanceTransaction, 0, len(symbols))
	for _, symbol := range symbols {
		pos := positions[symbol]
		if pos.CurrentPrice <= 0 {
			e.log.Warn().Str("symbol", symbol).Msg("Skipping position with non-positive price")
			continue
		}

		targetValue := portfolioValue * targetWeights[symbol]
		diff := targetValue - pos.MarketValue()
		if diff == 0 {
			continue
		}

		action := domain.ActionBuy
		if diff < 0 {
			action = domain.ActionSell
		}

		quantity := abs(diff) / pos.CurrentPrice
		transactions = append(transactions, domain.RebalanceTransaction{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
			Symbol:    symbol,
			Action:    action,
			Quantity:  quantity,
			Price:     pos.CurrentPrice,
			Amount:    quantity * pos.CurrentPrice,
		})
	}

	return transactions
}

// Optimize nets transactions per symbol (buys positive, sells negative),
// drops symbols whose absolute net amount is below the minimum trade size,
// and emits a single transaction per remaining symbol. The price of the
// first-seen transaction for each symbol is used for the quantity, so all
// transactions for one symbol in a single pass should share a price.
func (e *Engine) Optimize(transactions []domain.RebalanceTransaction) []domain.RebalanceTransaction {
	type group struct {
		net   float64
		price float64
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, tx := range transactions {
		g, ok := groups[tx.Symbol]
		if !ok {
			g = &group{price: tx.Price}
			groups[tx.Symbol] = g
			order = append(order, tx.Symbol)
		}

		if tx.Action == domain.ActionBuy {
			g.net += tx.Amount
		} else {
			g.net -= tx.Amount
		}
	}

	optimized := make([]domain.RebalanceTransaction, 0, len(order))
	for _, symbol := range order {
		g := groups[symbol]
		if abs(g.net) < e.minTradeSize {
			e.log.Debug().
				Str("symbol", symbol).
				Float64("net", g.net).
				Msg("Dropping transaction below minimum trade size")
			continue
		}
		if g.price <= 0 {
			continue
		}

		action := domain.ActionBuy
		if g.net < 0 {
			action = domain.ActionSell
		}

		quantity := abs(g.net) / g.price
		optimized = append(optimized, domain.RebalanceTransaction{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
			Symbol:    symbol,
			Action:    action,
			Quantity:  quantity,
			Price:     g.price,
			Amount:    quantity * g.price,
		})
	}

	return optimized
}

// Cost returns the total transaction cost at the configured fee rate:
// Σ(amount × feeRate).
func (e *Engine) Cost(transactions []domain.RebalanceTransaction) float64 {
	total := 0.0
	for _, tx := range transactions {
		total += tx.Amount * e.feeRate
	}
	return total
}

// WeightDeviations returns |currentWeight − targetWeight| for every position
// present in targetWeights, where currentWeight = marketValue / totalValue.
// An empty portfolio yields current weights of 0.
func (e *Engine) WeightDeviations(positions map[string]domain.Position, targetWeights map[string]float64) map[string]float64 {
	totalValue := 0.0
	for _, pos := range positions {
		totalValue += pos.MarketValue()
	}

	deviations := make(map[string]float64, len(targetWeights))
	for symbol, target := range targetWeights {
		pos, held := positions[symbol]
		current := 0.0
		if held && totalValue > 0 {
			current = pos.MarketValue() / totalValue
		}
		deviations[symbol] = abs(current - target)
	}

	return deviations
}

// NeedsRebalancing reports whether a deviation exceeds the configured
// threshold
func (e *Engine) NeedsRebalancing(deviation float64) bool {
	return deviation > e.threshold
}

// BuildPlan runs the full rebalancing flow: resolve target weights, measure
// deviations, generate transactions only for symbols beyond the threshold,
// net them, and estimate cost.
func (e *Engine) BuildPlan(portfolio domain.Portfolio, allocation domain.TargetAllocation) Plan {
	targetWeights := e.TargetWeights(portfolio.Positions, allocation)
	deviations := e.WeightDeviations(portfolio.Positions, targetWeights)

	flagged := make(map[string]domain.Position)
	flaggedWeights := make(map[string]float64)
	for symbol, deviation := range deviations {
		if e.NeedsRebalancing(deviation) {
			flagged[symbol] = portfolio.Positions[symbol]
			flaggedWeights[symbol] = targetWeights[symbol]
		}
	}

	transactions := e.Optimize(e.GenerateTransactions(flagged, flaggedWeights, portfolio.TotalValue()))

	plan := Plan{
		Transactions:  transactions,
		Deviations:    deviations,
		EstimatedCost: e.Cost(transactions),
	}

	e.log.Info().
		Str("portfolio", portfolio.ID).
		Int("transactions", len(transactions)).
		Float64("estimated_cost", plan.EstimatedCost).
		Msg("Built rebalancing plan")

	return plan
}

func sortedSymbols(positions map[string]domain.Position) []string {
	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
