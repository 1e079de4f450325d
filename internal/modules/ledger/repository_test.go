package ledger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/metrics"
	testutil "github.com/aristath/finsight/internal/testing"
)

func TestTransactionRepository_CreateBatchAndListSince(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTransactionRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, testutil.NewTransactionFixtures()))
	assert.Equal(t, 10, testutil.CountRows(t, db, "transactions"))

	since := metrics.WindowStart(testutil.FixtureAsOf, metrics.WindowMonths)
	txs, err := repo.ListSince(ctx, testutil.FixtureUserID, since)
	require.NoError(t, err)
	require.Len(t, txs, 9, "November salary falls outside the window")

	assert.Equal(t, "tx-02", txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, domain.TransactionIncome, txs[0].Type)
	assert.Equal(t, "tx-10", txs[8].ID)
	assert.Equal(t, domain.TransactionTransfer, txs[8].Type)
}

func TestTransactionRepository_ListSinceScopesByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTransactionRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, testutil.NewTransactionFixtures()))

	txs, err := repo.ListSince(ctx, "someone-else", testutil.FixtureAsOf.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionRepository_CreateAssignsID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTransactionRepository(db.Conn(), zerolog.Nop())

	tx := domain.Transaction{
		UserID:      "user-1",
		Description: "Coffee",
		Type:        domain.TransactionExpense,
		Amount:      decimal.RequireFromString("-4.75"),
		Date:        testutil.FixtureAsOf,
	}
	require.NoError(t, repo.Create(context.Background(), &tx))
	assert.NotEmpty(t, tx.ID)

	txs, err := repo.ListSince(context.Background(), "user-1", testutil.FixtureAsOf)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "-4.75", txs[0].Amount.String())
}

func TestTransactionRepository_CreateBatchIsAtomic(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTransactionRepository(db.Conn(), zerolog.Nop())

	batch := testutil.NewTransactionFixtures()
	batch[5].Type = "refund"

	require.Error(t, repo.CreateBatch(context.Background(), batch))
	assert.Equal(t, 0, testutil.CountRows(t, db, "transactions"))
}

func TestAccountRepository_UpsertAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	for _, acc := range testutil.NewAccountFixtures() {
		require.NoError(t, repo.Upsert(ctx, acc))
	}

	updated := testutil.NewAccountFixtures()[1]
	updated.Balance = decimal.RequireFromString("13250.50")
	require.NoError(t, repo.Upsert(ctx, updated))

	accounts, err := repo.ListByUser(ctx, testutil.FixtureUserID)
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	assert.True(t, domain.EmergencyFundBalance(accounts).Equal(decimal.RequireFromString("13250.50")))
}

func TestAccountRepository_UpsertRejectsInvalid(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAccountRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	assert.Error(t, repo.Upsert(ctx, domain.Account{UserID: "user-1", Type: domain.AccountSavings}))
	assert.Error(t, repo.Upsert(ctx, domain.Account{ID: "a", UserID: "user-1", Type: "pension"}))
}
