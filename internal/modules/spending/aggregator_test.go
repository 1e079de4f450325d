package spending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/categorization"
	"github.com/aristath/finsight/internal/modules/metrics"
)

var asOf = time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)

func expense(amount, description string, daysAgo int) domain.Transaction {
	return domain.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Type:        domain.TransactionExpense,
		Date:        asOf.AddDate(0, 0, -daysAgo),
	}
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate(nil, asOf)
	assert.Empty(t, result)
	assert.True(t, result.Total().IsZero())
}

func TestAggregate_SingleCategory(t *testing.T) {
	txs := []domain.Transaction{
		expense("-1500", "rent payment", 10),
		{Amount: decimal.NewFromInt(5000), Description: "salary", Type: domain.TransactionIncome, Date: asOf.AddDate(0, 0, -10)},
	}

	result := Aggregate(txs, asOf)

	require.Len(t, result, 1)
	housing := result[categorization.Housing]
	assert.True(t, decimal.NewFromInt(1500).Equal(housing.Amount))
	assert.InDelta(t, 100.0, housing.Percentage, 1e-9)
	assert.Equal(t, 1, housing.TransactionCount)
}

func TestAggregate_OneMonthWindow(t *testing.T) {
	txs := []domain.Transaction{
		expense("-100", "coffee", 5),
		expense("-100", "coffee", 40), // outside one month
		{Amount: decimal.NewFromInt(-300), Description: "transfer to savings", Type: domain.TransactionTransfer, Date: asOf},
	}

	result := Aggregate(txs, asOf)

	require.Len(t, result, 1)
	assert.Equal(t, 1, result[categorization.Food].TransactionCount)
}

func TestAggregate_NarrowerWindowThanMetrics(t *testing.T) {
	txs := []domain.Transaction{
		{Amount: decimal.NewFromInt(5000), Description: "salary", Type: domain.TransactionIncome, Date: asOf.AddDate(0, 0, -10)},
		expense("-1500", "rent payment", 40),
	}

	// Rent from 40 days ago is in the three-month metrics window only
	m := metrics.Compute(txs, decimal.Zero, asOf)
	assert.True(t, decimal.NewFromInt(1500).Equal(m.TotalExpenses))

	result := Aggregate(txs, asOf)
	assert.Empty(t, result)
	_, ok := result.Share(categorization.Housing)
	assert.False(t, ok)
}

func TestAggregate_PercentagesSumToHundred(t *testing.T) {
	txs := []domain.Transaction{
		expense("-1200", "rent", 1),
		expense("-333.33", "groceries", 2),
		expense("-66.67", "uber", 3),
		expense("-45.10", "netflix", 4),
		expense("-17", "mystery charge", 5),
		expense("-80", "groceries", 6),
	}

	result := Aggregate(txs, asOf)

	sum := 0.0
	for _, bucket := range result {
		sum += bucket.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
	assert.Equal(t, 2, result[categorization.Food].TransactionCount)
	assert.True(t, decimal.RequireFromString("413.33").Equal(result[categorization.Food].Amount))
	assert.True(t, decimal.RequireFromString("1742.10").Equal(result.Total()))
}

func TestAggregate_ZeroAmountsYieldZeroPercentages(t *testing.T) {
	txs := []domain.Transaction{
		expense("0", "rent", 1),
		expense("0", "coffee", 1),
	}

	result := Aggregate(txs, asOf)
	require.Len(t, result, 2)
	for _, bucket := range result {
		assert.Equal(t, 0.0, bucket.Percentage)
	}
}

func TestByCategory_Share(t *testing.T) {
	result := Aggregate([]domain.Transaction{expense("-50", "pizza", 1)}, asOf)

	share, ok := result.Share(categorization.Food)
	assert.True(t, ok)
	assert.InDelta(t, 100.0, share, 1e-9)

	_, ok = result.Share(categorization.Housing)
	assert.False(t, ok)
}

func TestByCategory_Sorted(t *testing.T) {
	txs := []domain.Transaction{
		expense("-20", "coffee", 1),
		expense("-900", "rent", 1),
		expense("-20", "netflix", 1),
		expense("-75", "uber", 1),
	}

	entries := Aggregate(txs, asOf).Sorted()

	require.Len(t, entries, 4)
	assert.Equal(t, categorization.Housing, entries[0].Category)
	assert.Equal(t, categorization.Transportation, entries[1].Category)
	// Equal amounts fall back to name order
	assert.Equal(t, categorization.Entertainment, entries[2].Category)
	assert.Equal(t, categorization.Food, entries[3].Category)
}
