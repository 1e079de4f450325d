package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/domain"
)

func TestPerformance(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "AAPL", Shares: 10, PurchasePrice: 100, CurrentPrice: 150},
		{Symbol: "MSFT", Shares: 5, PurchasePrice: 200, CurrentPrice: 180, PreviousPrice: 190},
	}

	perf := Performance(holdings)

	assert.InDelta(t, 2400.0, perf.TotalValue, 1e-9)
	assert.InDelta(t, 2000.0, perf.TotalCost, 1e-9)
	assert.InDelta(t, 400.0, perf.TotalGain, 1e-9)
	assert.InDelta(t, 20.0, perf.TotalGainPercentage, 1e-9)
	// AAPL synthesizes 148.5 as the prior price, MSFT uses its recorded 190
	assert.InDelta(t, -35.0, perf.DayChange, 1e-9)
	assert.InDelta(t, -35.0/2400*100, perf.DayChangePercentage, 1e-9)
	assert.InDelta(t, 20.0, perf.DiversificationScore, 1e-9)

	require.Len(t, perf.Positions, 2)
	assert.Equal(t, "AAPL", perf.Positions[0].Symbol)
	assert.InDelta(t, 50.0, perf.Positions[0].GainPercentage, 1e-9)
	assert.InDelta(t, 62.5, perf.Positions[0].Weight, 1e-9)
	assert.InDelta(t, 15.0, perf.Positions[0].DayChange, 1e-9)
	assert.InDelta(t, -10.0, perf.Positions[1].GainPercentage, 1e-9)
	assert.InDelta(t, 37.5, perf.Positions[1].Weight, 1e-9)
}

func TestPerformance_SyntheticDayChangeIsOnePercentOfValue(t *testing.T) {
	perf := Performance([]domain.Holding{
		{Symbol: "VTI", Shares: 4, PurchasePrice: 200, CurrentPrice: 250},
	})

	assert.InDelta(t, 10.0, perf.DayChange, 1e-9)
	assert.InDelta(t, 1.0, perf.DayChangePercentage, 1e-9)
}

func TestPerformance_Empty(t *testing.T) {
	perf := Performance(nil)

	assert.Equal(t, 0.0, perf.TotalValue)
	assert.Equal(t, 0.0, perf.TotalGainPercentage)
	assert.Equal(t, 0.0, perf.DayChangePercentage)
	assert.Equal(t, 0.0, perf.DiversificationScore)
	assert.NotNil(t, perf.Positions)
	assert.Empty(t, perf.Positions)
}

func TestPerformance_ZeroCostBasis(t *testing.T) {
	perf := Performance([]domain.Holding{
		{Symbol: "GIFT", Shares: 3, PurchasePrice: 0, CurrentPrice: 10},
	})

	assert.InDelta(t, 30.0, perf.TotalGain, 1e-9)
	assert.Equal(t, 0.0, perf.TotalGainPercentage)
	assert.Equal(t, 0.0, perf.Positions[0].GainPercentage)
}

func TestPerformance_DiversificationCountsDistinctSymbols(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "AAPL", Shares: 1, CurrentPrice: 1},
		{Symbol: "aapl ", Shares: 1, CurrentPrice: 1},
		{Symbol: "BND", Shares: 1, CurrentPrice: 1},
	}

	assert.InDelta(t, 20.0, Performance(holdings).DiversificationScore, 1e-9)
}

func TestDiversificationScore(t *testing.T) {
	assert.Equal(t, 0.0, DiversificationScore(0))
	assert.InDelta(t, 50.0, DiversificationScore(5), 1e-9)
	assert.InDelta(t, 100.0, DiversificationScore(10), 1e-9)
	assert.InDelta(t, 100.0, DiversificationScore(25), 1e-9)
}

func TestPriorPrice(t *testing.T) {
	assert.InDelta(t, 99.0, PriorPrice(domain.Holding{CurrentPrice: 100}), 1e-9)
	assert.InDelta(t, 95.0, PriorPrice(domain.Holding{CurrentPrice: 100, PreviousPrice: 95}), 1e-9)
}
