package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centavo/internal/blobstore"
	"centavo/internal/engine"
	"centavo/internal/model"
	"centavo/internal/storage"
)

// The full lifecycle across a process restart: register, seed, record
// transactions, reload from the persisted image, and read the same state
// back through fresh repositories.
func TestRepositoriesSurviveReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := blobstore.NewFileStore(dir)
	require.NoError(t, err)

	first := engine.New(store, "finance")
	repos := storage.NewRepositories(first)

	user, err := repos.Users.Create(ctx, model.CreateUser{
		Username: "alice",
		PinHash:  "a1b2c3d4",
		Salt:     "00112233",
	})
	require.NoError(t, err)

	_, err = repos.Settings.CreateDefaults(ctx, user.ID)
	require.NoError(t, err)

	seeded, err := repos.Categories.SeedDefaultCategories(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(21), seeded)

	income, err := repos.Categories.FindByType(ctx, user.ID, model.TypeIncome)
	require.NoError(t, err)
	require.NotEmpty(t, income)
	expense, err := repos.Categories.FindByType(ctx, user.ID, model.TypeExpense)
	require.NoError(t, err)
	require.NotEmpty(t, expense)

	deposits := []model.CreateTransaction{
		{Amount: decimal.NewFromInt(5000), Type: model.TypeIncome, CategoryID: income[0].ID, Date: "2026-08-01", UserID: user.ID},
		{Amount: decimal.NewFromInt(100), Type: model.TypeExpense, CategoryID: expense[0].ID, Date: "2026-08-02", UserID: user.ID},
		{Amount: decimal.NewFromInt(50), Type: model.TypeExpense, CategoryID: expense[0].ID, Date: "2026-08-03", UserID: user.ID},
	}
	for _, data := range deposits {
		_, err := repos.Transactions.Create(ctx, data)
		require.NoError(t, err)
	}

	require.NoError(t, first.Close())

	// A second engine over the same store sees everything.
	second := engine.New(store, "finance")
	repos = storage.NewRepositories(second)
	t.Cleanup(func() { _ = second.Close() })

	reloaded, err := repos.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, user.ID, reloaded.ID)

	settings, err := repos.Settings.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, settings)

	categories, err := repos.Categories.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 21)

	summary, err := repos.Transactions.GetBalanceSummary(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(4850)))
}
