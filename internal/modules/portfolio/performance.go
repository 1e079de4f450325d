// Package portfolio evaluates holdings and plans contributions towards investment goals.
package portfolio

import (
	"strings"

	"github.com/aristath/finsight/internal/domain"
)

// SyntheticPriorPriceFactor approximates yesterday's price when no price history is known
const SyntheticPriorPriceFactor = 0.99

// diversifiedHoldingCount is the number of distinct symbols that earns a full score
const diversifiedHoldingCount = 10

// Position is the evaluated state of a single holding
type Position struct {
	Symbol         string  `json:"symbol"`
	Shares         float64 `json:"shares"`
	MarketValue    float64 `json:"market_value"`
	CostBasis      float64 `json:"cost_basis"`
	Gain           float64 `json:"gain"`
	GainPercentage float64 `json:"gain_percentage"`
	DayChange      float64 `json:"day_change"`
	Weight         float64 `json:"weight"` // Percentage of total portfolio value
}

// PortfolioPerformance summarizes the value and spread of a set of holdings
type PortfolioPerformance struct {
	TotalValue           float64    `json:"total_value"`
	TotalCost            float64    `json:"total_cost"`
	TotalGain            float64    `json:"total_gain"`
	TotalGainPercentage  float64    `json:"total_gain_percentage"`
	DayChange            float64    `json:"day_change"`
	DayChangePercentage  float64    `json:"day_change_percentage"`
	DiversificationScore float64    `json:"diversification_score"`
	Positions            []Position `json:"positions"`
}

// PriorPrice returns the holding's previous price, or a synthetic price 1% below the
// current one when no previous price is recorded.
func PriorPrice(h domain.Holding) float64 {
	if h.PreviousPrice > 0 {
		return h.PreviousPrice
	}
	return h.CurrentPrice * SyntheticPriorPriceFactor
}

// Performance evaluates holdings at their current prices.
// Negative shares or prices are not detected; callers validate input.
func Performance(holdings []domain.Holding) PortfolioPerformance {
	perf := PortfolioPerformance{Positions: make([]Position, 0, len(holdings))}
	symbols := make(map[string]struct{}, len(holdings))

	for _, h := range holdings {
		value := h.Shares * h.CurrentPrice
		cost := h.Shares * h.PurchasePrice
		dayChange := h.Shares * (h.CurrentPrice - PriorPrice(h))

		perf.TotalValue += value
		perf.TotalCost += cost
		perf.DayChange += dayChange

		pos := Position{
			Symbol:      h.Symbol,
			Shares:      h.Shares,
			MarketValue: value,
			CostBasis:   cost,
			Gain:        value - cost,
			DayChange:   dayChange,
		}
		if cost != 0 {
			pos.GainPercentage = pos.Gain / cost * 100
		}
		perf.Positions = append(perf.Positions, pos)

		if symbol := strings.ToUpper(strings.TrimSpace(h.Symbol)); symbol != "" {
			symbols[symbol] = struct{}{}
		}
	}

	perf.TotalGain = perf.TotalValue - perf.TotalCost
	if perf.TotalCost != 0 {
		perf.TotalGainPercentage = perf.TotalGain / perf.TotalCost * 100
	}
	if perf.TotalValue != 0 {
		perf.DayChangePercentage = perf.DayChange / perf.TotalValue * 100
		for i := range perf.Positions {
			perf.Positions[i].Weight = perf.Positions[i].MarketValue / perf.TotalValue * 100
		}
	}
	perf.DiversificationScore = DiversificationScore(len(symbols))

	return perf
}

// DiversificationScore maps a distinct symbol count onto 0-100
func DiversificationScore(distinctSymbols int) float64 {
	if distinctSymbols <= 0 {
		return 0
	}
	score := float64(distinctSymbols) / diversifiedHoldingCount * 100
	if score > 100 {
		return 100
	}
	return score
}
