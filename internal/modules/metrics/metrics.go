// Package metrics derives income, expense, savings and debt ratios from a trailing window
// of transactions.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/categorization"
)

// WindowMonths is the lookback used for every metric
const WindowMonths = 3

var (
	hundred      = decimal.NewFromInt(100)
	windowLength = decimal.NewFromInt(WindowMonths)
)

// FinancialMetrics is recomputed per request and never persisted by the engine
type FinancialMetrics struct {
	TotalIncome           decimal.Decimal `json:"total_income"`
	TotalExpenses         decimal.Decimal `json:"total_expenses"`
	NetIncome             decimal.Decimal `json:"net_income"`
	SavingsRate           float64         `json:"savings_rate"`
	DebtToIncomeRatio     float64         `json:"debt_to_income_ratio"`
	EmergencyFundMonths   float64         `json:"emergency_fund_months"`
	MonthlyBudgetVariance float64         `json:"monthly_budget_variance"`
}

// Compute aggregates the transactions dated on or after asOf minus three calendar months.
// Transfers count towards neither income nor expenses. Every ratio is zero-guarded.
func Compute(transactions []domain.Transaction, emergencyFund decimal.Decimal, asOf time.Time) FinancialMetrics {
	since := WindowStart(asOf, WindowMonths)

	income := decimal.Zero
	expenses := decimal.Zero
	debtPayments := decimal.Zero

	for _, tx := range transactions {
		if tx.Date.Before(since) {
			continue
		}
		switch tx.Type {
		case domain.TransactionIncome:
			income = income.Add(tx.AbsAmount())
		case domain.TransactionExpense:
			expenses = expenses.Add(tx.AbsAmount())
			if categorization.Categorize(tx.Description) == categorization.Debt {
				debtPayments = debtPayments.Add(tx.AbsAmount())
			}
		}
	}

	net := income.Sub(expenses)
	m := FinancialMetrics{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetIncome:     net,
		// No budget source is wired yet
		MonthlyBudgetVariance: 0,
	}

	if income.IsPositive() {
		m.SavingsRate = net.Div(income).Mul(hundred).InexactFloat64()
	}

	if monthlyExpenses := expenses.Div(windowLength); monthlyExpenses.IsPositive() {
		m.EmergencyFundMonths = emergencyFund.Div(monthlyExpenses).InexactFloat64()
	}

	if monthlyIncome := income.Div(windowLength); monthlyIncome.IsPositive() {
		monthlyDebt := debtPayments.Div(windowLength)
		m.DebtToIncomeRatio = monthlyDebt.Div(monthlyIncome).Mul(hundred).InexactFloat64()
	}

	return m
}
