// Package domain provides the core records consumed by the finsight calculation engine.
//
// Records are plain immutable values: the engine only reads snapshots handed to it by the
// persistence layer and never mutates them.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a transaction
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

// Transaction represents a single recorded money movement.
// Amount is signed as recorded by the source; calculations use its absolute value.
type Transaction struct {
	Date        time.Time       `json:"date" yaml:"date"`
	ID          string          `json:"id" yaml:"id"`
	UserID      string          `json:"user_id" yaml:"user_id"`
	Description string          `json:"description" yaml:"description"`
	Type        TransactionType `json:"type" yaml:"type"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// AbsAmount returns the unsigned transaction amount
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// AccountType classifies a balance-holding account
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountCredit     AccountType = "credit"
)

// Valid reports whether t is one of the known account types
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCredit:
		return true
	}
	return false
}

// Account represents a balance snapshot for one account
type Account struct {
	ID      string          `json:"id" yaml:"id"`
	UserID  string          `json:"user_id" yaml:"user_id"`
	Name    string          `json:"name" yaml:"name"`
	Type    AccountType     `json:"type" yaml:"type"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// EmergencyFundBalance sums the balances of savings accounts.
// Checking, investment and credit accounts do not count towards the emergency fund.
func EmergencyFundBalance(accounts []Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == AccountSavings {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// Holding represents a position in a single security.
// PreviousPrice is the prior close when known; zero means no price history is available.
type Holding struct {
	Symbol        string  `json:"symbol" yaml:"symbol"`
	Shares        float64 `json:"shares" yaml:"shares"`
	PurchasePrice float64 `json:"purchase_price" yaml:"purchase_price"`
	CurrentPrice  float64 `json:"current_price" yaml:"current_price"`
	PreviousPrice float64 `json:"previous_price,omitempty" yaml:"previous_price"`
}
