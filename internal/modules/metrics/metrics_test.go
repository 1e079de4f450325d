package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aristath/finsight/internal/domain"
)

var asOf = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func tx(amount string, description string, typ domain.TransactionType, daysAgo int) domain.Transaction {
	return domain.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Type:        typ,
		Date:        asOf.AddDate(0, 0, -daysAgo),
	}
}

func TestCompute_Empty(t *testing.T) {
	m := Compute(nil, decimal.Zero, asOf)

	assert.True(t, m.TotalIncome.IsZero())
	assert.True(t, m.TotalExpenses.IsZero())
	assert.True(t, m.NetIncome.IsZero())
	assert.Equal(t, 0.0, m.SavingsRate)
	assert.Equal(t, 0.0, m.DebtToIncomeRatio)
	assert.Equal(t, 0.0, m.EmergencyFundMonths)
	assert.Equal(t, 0.0, m.MonthlyBudgetVariance)
}

func TestCompute_RentScenario(t *testing.T) {
	txs := []domain.Transaction{
		tx("5000", "ACME payroll", domain.TransactionIncome, 40),
		tx("-1500", "rent payment", domain.TransactionExpense, 40),
	}

	m := Compute(txs, decimal.Zero, asOf)

	assert.True(t, decimal.NewFromInt(5000).Equal(m.TotalIncome))
	assert.True(t, decimal.NewFromInt(1500).Equal(m.TotalExpenses))
	assert.True(t, decimal.NewFromInt(3500).Equal(m.NetIncome))
	assert.InDelta(t, 70.0, m.SavingsRate, 1e-9)
	assert.Equal(t, 0.0, m.DebtToIncomeRatio)
}

func TestCompute_WindowAndTransfers(t *testing.T) {
	txs := []domain.Transaction{
		tx("3000", "salary", domain.TransactionIncome, 10),
		tx("3000", "salary", domain.TransactionIncome, 200), // outside the 3 month window
		tx("-600", "groceries", domain.TransactionExpense, 5),
		tx("-900", "groceries", domain.TransactionExpense, 120), // outside
		tx("-10000", "move to brokerage", domain.TransactionTransfer, 3),
	}

	m := Compute(txs, decimal.Zero, asOf)

	assert.True(t, decimal.NewFromInt(3000).Equal(m.TotalIncome))
	assert.True(t, decimal.NewFromInt(600).Equal(m.TotalExpenses))
	assert.InDelta(t, 80.0, m.SavingsRate, 1e-9)
}

func TestCompute_WindowBoundaryIsInclusive(t *testing.T) {
	boundary := WindowStart(asOf, WindowMonths)
	txs := []domain.Transaction{
		{Amount: decimal.NewFromInt(100), Type: domain.TransactionIncome, Date: boundary},
		{Amount: decimal.NewFromInt(100), Type: domain.TransactionIncome, Date: boundary.Add(-time.Second)},
	}

	m := Compute(txs, decimal.Zero, asOf)
	assert.True(t, decimal.NewFromInt(100).Equal(m.TotalIncome))
}

func TestCompute_EmergencyFundMonths(t *testing.T) {
	txs := []domain.Transaction{
		tx("9000", "salary", domain.TransactionIncome, 15),
		tx("-3000", "rent", domain.TransactionExpense, 15),
	}

	// Monthly expenses = 3000 / 3 = 1000
	m := Compute(txs, decimal.NewFromInt(4500), asOf)
	assert.InDelta(t, 4.5, m.EmergencyFundMonths, 1e-9)

	// No expenses means no meaningful runway; guarded to zero
	m = Compute(txs[:1], decimal.NewFromInt(4500), asOf)
	assert.Equal(t, 0.0, m.EmergencyFundMonths)
}

func TestCompute_DebtToIncome(t *testing.T) {
	txs := []domain.Transaction{
		tx("6000", "salary", domain.TransactionIncome, 20),
		tx("-900", "student loan", domain.TransactionExpense, 20),
		tx("-300", "credit card payment", domain.TransactionExpense, 50),
		tx("-400", "rent", domain.TransactionExpense, 50),
	}

	// (1200 / 3) / (6000 / 3) × 100
	m := Compute(txs, decimal.Zero, asOf)
	assert.InDelta(t, 20.0, m.DebtToIncomeRatio, 1e-9)
}

func TestCompute_NegativeSavingsRate(t *testing.T) {
	txs := []domain.Transaction{
		tx("1000", "salary", domain.TransactionIncome, 1),
		tx("-1500", "amazon", domain.TransactionExpense, 1),
	}

	m := Compute(txs, decimal.Zero, asOf)
	assert.True(t, decimal.NewFromInt(-500).Equal(m.NetIncome))
	assert.InDelta(t, -50.0, m.SavingsRate, 1e-9)
}

func TestCompute_ExpensesWithoutIncome(t *testing.T) {
	txs := []domain.Transaction{
		tx("-250", "loan", domain.TransactionExpense, 1),
	}

	m := Compute(txs, decimal.Zero, asOf)
	assert.Equal(t, 0.0, m.SavingsRate)
	assert.Equal(t, 0.0, m.DebtToIncomeRatio)
}
