package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/finsight/internal/domain"
)

// FixtureUserID owns every fixture record
const FixtureUserID = "user-1"

// FixtureAsOf is the evaluation date the fixtures are laid out around
var FixtureAsOf = time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 9, 0, 0, 0, time.UTC)
}

// NewTransactionFixtures returns three months of salary and spending before FixtureAsOf
// plus one income outside the three-month window.
//
// Within the window: income 15000, expenses 3915 (debt 500), one ignored transfer.
// Within the last month: rent 1500, groceries 400, credit card 500, streaming 15.
func NewTransactionFixtures() []domain.Transaction {
	return []domain.Transaction{
		{ID: "tx-01", UserID: FixtureUserID, Description: "Salary", Type: domain.TransactionIncome, Amount: decimal.NewFromInt(5000), Date: time.Date(2024, time.November, 15, 9, 0, 0, 0, time.UTC)},
		{ID: "tx-02", UserID: FixtureUserID, Description: "Salary", Type: domain.TransactionIncome, Amount: decimal.NewFromInt(5000), Date: day(time.January, 15)},
		{ID: "tx-03", UserID: FixtureUserID, Description: "Rent payment", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(-1500), Date: day(time.February, 1)},
		{ID: "tx-04", UserID: FixtureUserID, Description: "Salary", Type: domain.TransactionIncome, Amount: decimal.NewFromInt(5000), Date: day(time.February, 15)},
		{ID: "tx-05", UserID: FixtureUserID, Description: "Rent payment", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(-1500), Date: day(time.March, 1)},
		{ID: "tx-06", UserID: FixtureUserID, Description: "Netflix subscription", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(-15), Date: day(time.March, 5)},
		{ID: "tx-07", UserID: FixtureUserID, Description: "Grocery store", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(-400), Date: day(time.March, 10)},
		{ID: "tx-08", UserID: FixtureUserID, Description: "Salary", Type: domain.TransactionIncome, Amount: decimal.NewFromInt(5000), Date: day(time.March, 15)},
		{ID: "tx-09", UserID: FixtureUserID, Description: "Credit card payment", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(-500), Date: day(time.March, 20)},
		{ID: "tx-10", UserID: FixtureUserID, Description: "Transfer to savings", Type: domain.TransactionTransfer, Amount: decimal.NewFromInt(-1000), Date: day(time.March, 25)},
	}
}

// NewAccountFixtures returns one account of each type. The emergency fund is 12000.
func NewAccountFixtures() []domain.Account {
	return []domain.Account{
		{ID: "acc-checking", UserID: FixtureUserID, Name: "Everyday", Type: domain.AccountChecking, Balance: decimal.NewFromInt(2500)},
		{ID: "acc-savings", UserID: FixtureUserID, Name: "Rainy day", Type: domain.AccountSavings, Balance: decimal.NewFromInt(12000)},
		{ID: "acc-broker", UserID: FixtureUserID, Name: "Brokerage", Type: domain.AccountInvestment, Balance: decimal.NewFromInt(30000)},
		{ID: "acc-card", UserID: FixtureUserID, Name: "Card", Type: domain.AccountCredit, Balance: decimal.NewFromInt(-800)},
	}
}

// NewHoldingFixtures returns two holdings worth 2400 with a cost basis of 2000
func NewHoldingFixtures() []domain.Holding {
	return []domain.Holding{
		{Symbol: "AAPL", Shares: 10, PurchasePrice: 100, CurrentPrice: 150},
		{Symbol: "MSFT", Shares: 5, PurchasePrice: 200, CurrentPrice: 180, PreviousPrice: 190},
	}
}

// NewProfileFixture returns a moderate investor who is 40 on FixtureAsOf
func NewProfileFixture() *domain.UserProfile {
	return &domain.UserProfile{
		UserID:                 FixtureUserID,
		Name:                   "Alex",
		BirthDate:              time.Date(1985, time.January, 10, 0, 0, 0, 0, time.UTC),
		RiskTolerance:          domain.RiskModerate,
		GoalType:               domain.GoalRetirement,
		AnnualIncome:           decimal.NewFromInt(60000),
		AvailableToInvest:      decimal.NewFromInt(500),
		GoalTarget:             decimal.NewFromInt(100000),
		RetirementAge:          65,
		InvestmentHorizonYears: 0,
	}
}
