package profiles

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/domain"
	testutil "github.com/aristath/finsight/internal/testing"
)

func TestRepository_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	want := testutil.NewProfileFixture()
	require.NoError(t, repo.Upsert(ctx, *want))

	got, err := repo.Get(ctx, testutil.FixtureUserID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.BirthDate.Equal(got.BirthDate))
	assert.Equal(t, domain.RiskModerate, got.RiskTolerance)
	assert.Equal(t, domain.GoalRetirement, got.GoalType)
	assert.True(t, want.GoalTarget.Equal(got.GoalTarget))
	assert.True(t, want.AnnualIncome.Equal(got.AnnualIncome))
	assert.Equal(t, 65, got.RetirementAge)
	assert.Equal(t, 40, got.AgeAt(testutil.FixtureAsOf))
}

func TestRepository_UpsertNormalizesToleranceAndGoal(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, domain.UserProfile{
		UserID:        "user-2",
		RiskTolerance: " Aggressive ",
		GoalTarget:    decimal.NewFromInt(50000),
	}))

	got, err := repo.Get(ctx, "user-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.RiskAggressive, got.RiskTolerance)
	assert.Equal(t, domain.GoalGeneral, got.GoalType)
	assert.True(t, got.BirthDate.IsZero())
}

func TestRepository_UpsertRejectsUnknownTolerance(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	err := repo.Upsert(context.Background(), domain.UserProfile{UserID: "user-3", RiskTolerance: "yolo"})
	assert.Error(t, err)
}

func TestRepository_GetMissingReturnsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	got, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_ListUserIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, repo.Upsert(ctx, domain.UserProfile{UserID: id, RiskTolerance: domain.RiskModerate}))
	}

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
