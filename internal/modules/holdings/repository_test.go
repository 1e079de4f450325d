package holdings

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/modules/portfolio"
	testutil "github.com/aristath/finsight/internal/testing"
)

func TestRepository_UpsertAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	for _, h := range testutil.NewHoldingFixtures() {
		require.NoError(t, repo.Upsert(ctx, testutil.FixtureUserID, h))
	}

	holdings, err := repo.ListByUser(ctx, testutil.FixtureUserID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, testutil.NewHoldingFixtures(), holdings)

	perf := portfolio.Performance(holdings)
	assert.InDelta(t, 2400.0, perf.TotalValue, 1e-9)
}

func TestRepository_UpsertNormalizesSymbolAndReplaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-1", domain.Holding{Symbol: " vti ", Shares: 1, CurrentPrice: 250}))
	require.NoError(t, repo.Upsert(ctx, "user-1", domain.Holding{Symbol: "VTI", Shares: 3, CurrentPrice: 255}))

	holdings, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "VTI", holdings[0].Symbol)
	assert.Equal(t, 3.0, holdings[0].Shares)
	assert.Equal(t, 0.0, holdings[0].PreviousPrice)
}

func TestRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "user-1", domain.Holding{Symbol: "BND", Shares: 2, CurrentPrice: 72}))
	require.NoError(t, repo.Delete(ctx, "user-1", "bnd"))

	holdings, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestRepository_UpsertRequiresSymbol(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	assert.Error(t, repo.Upsert(context.Background(), "user-1", domain.Holding{Symbol: "  "}))
}
