package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, TransactionIncome.Valid())
	assert.True(t, TransactionExpense.Valid())
	assert.True(t, TransactionTransfer.Valid())
	assert.False(t, TransactionType("refund").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestAccountType_Valid(t *testing.T) {
	for _, at := range []AccountType{AccountChecking, AccountSavings, AccountInvestment, AccountCredit} {
		assert.True(t, at.Valid(), at)
	}
	assert.False(t, AccountType("pension").Valid())
}

func TestTransaction_AbsAmount(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("-1500.25")}
	assert.True(t, decimal.RequireFromString("1500.25").Equal(tx.AbsAmount()))
}

func TestEmergencyFundBalance(t *testing.T) {
	accounts := []Account{
		{Type: AccountSavings, Balance: decimal.NewFromInt(5000)},
		{Type: AccountSavings, Balance: decimal.RequireFromString("250.50")},
		{Type: AccountChecking, Balance: decimal.NewFromInt(2000)},
		{Type: AccountCredit, Balance: decimal.NewFromInt(-800)},
		{Type: AccountInvestment, Balance: decimal.NewFromInt(90000)},
	}

	assert.True(t, decimal.RequireFromString("5250.50").Equal(EmergencyFundBalance(accounts)))
	assert.True(t, decimal.Zero.Equal(EmergencyFundBalance(nil)))
}

func TestParseRiskTolerance(t *testing.T) {
	tests := []struct {
		input    string
		expected RiskTolerance
		ok       bool
	}{
		{"conservative", RiskConservative, true},
		{" Moderate ", RiskModerate, true},
		{"AGGRESSIVE", RiskAggressive, true},
		{"yolo", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRiskTolerance(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUserProfile_AgeAt(t *testing.T) {
	p := UserProfile{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 34, p.AgeAt(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, p.AgeAt(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, p.AgeAt(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, UserProfile{}.AgeAt(time.Now()))
}

func TestUserProfile_InvestmentProfileAt(t *testing.T) {
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("horizon runs until retirement", func(t *testing.T) {
		p := UserProfile{
			BirthDate:         time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
			RetirementAge:     65,
			RiskTolerance:     RiskModerate,
			AvailableToInvest: decimal.NewFromInt(10000),
		}
		ip := p.InvestmentProfileAt(asOf)
		assert.Equal(t, 40, ip.CurrentAge)
		assert.Equal(t, 25, ip.TimeHorizonYears)
		assert.Equal(t, GoalGeneral, ip.GoalType)
		assert.Equal(t, 10000.0, ip.AvailableToInvest)
	})

	t.Run("explicit horizon wins", func(t *testing.T) {
		p := UserProfile{
			BirthDate:              time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
			RetirementAge:          65,
			InvestmentHorizonYears: 5,
			GoalType:               GoalHome,
		}
		ip := p.InvestmentProfileAt(asOf)
		assert.Equal(t, 5, ip.TimeHorizonYears)
		assert.Equal(t, GoalHome, ip.GoalType)
	})

	t.Run("past retirement clamps horizon to zero", func(t *testing.T) {
		p := UserProfile{
			BirthDate:     time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
			RetirementAge: 65,
		}
		assert.Equal(t, 0, p.InvestmentProfileAt(asOf).TimeHorizonYears)
	})
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, at, FixedClock{T: at}.Now())
}
