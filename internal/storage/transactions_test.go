package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centavo/internal/model"
	"centavo/internal/storage"
	"centavo/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestTransactionRepositoryCreate(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	category := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	tx, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:      decimal.NewFromFloat(42.50),
		Type:        model.TypeExpense,
		CategoryID:  category.ID,
		Description: ptr("lunch"),
		Date:        "2026-08-15",
		UserID:      user.ID,
	})
	require.NoError(t, err)
	assert.Positive(t, tx.ID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromFloat(42.50)))
	assert.Equal(t, "2026-08-15", tx.Date)
	require.NotNil(t, tx.Description)
	assert.Equal(t, "lunch", *tx.Description)
}

func TestTransactionRepositoryCreateValidation(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	category := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	valid := model.CreateTransaction{
		Amount:     decimal.NewFromInt(10),
		Type:       model.TypeExpense,
		CategoryID: category.ID,
		Date:       "2026-08-15",
		UserID:     user.ID,
	}

	tests := []struct {
		mutate  func(*model.CreateTransaction)
		wantErr error
		name    string
	}{
		{name: "zero amount", mutate: func(d *model.CreateTransaction) { d.Amount = decimal.Zero }, wantErr: storage.ErrInvalidAmount},
		{name: "negative amount", mutate: func(d *model.CreateTransaction) { d.Amount = decimal.NewFromInt(-5) }, wantErr: storage.ErrInvalidAmount},
		{name: "bad type", mutate: func(d *model.CreateTransaction) { d.Type = "transfer" }, wantErr: storage.ErrInvalidType},
		{name: "bad date", mutate: func(d *model.CreateTransaction) { d.Date = "15/08/2026" }, wantErr: storage.ErrInvalidDate},
		{name: "datetime date", mutate: func(d *model.CreateTransaction) { d.Date = "2026-08-15T10:00:00Z" }, wantErr: storage.ErrInvalidDate},
		{name: "zero user", mutate: func(d *model.CreateTransaction) { d.UserID = 0 }, wantErr: storage.ErrInvalidUserID},
		{name: "zero category", mutate: func(d *model.CreateTransaction) { d.CategoryID = 0 }, wantErr: storage.ErrInvalidEntryID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := valid
			tt.mutate(&data)
			_, err := repos.Transactions.Create(ctx, data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionRepositoryCreateTypeMismatch(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)

	_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(100),
		Type:       model.TypeExpense,
		CategoryID: salary.ID,
		Date:       "2026-08-15",
		UserID:     user.ID,
	})
	require.Error(t, err)

	var mismatch *storage.CategoryTypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "expense", mismatch.TransactionType)
	assert.Equal(t, "income", mismatch.CategoryType)
	assert.Equal(t, salary.ID, mismatch.CategoryID)

	// Nothing was written.
	count, err := repos.Transactions.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionRepositoryUpdate(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)
	rent := testutil.CreateTestCategory(t, repos, user.ID, "Rent", model.TypeExpense)

	tx, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(10),
		Type:       model.TypeExpense,
		CategoryID: food.ID,
		Date:       "2026-08-15",
		UserID:     user.ID,
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(25)
	updated, err := repos.Transactions.Update(ctx, tx.ID, model.UpdateTransaction{
		Amount:     &amount,
		CategoryID: &rent.ID,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, rent.ID, updated.CategoryID)
	assert.Equal(t, tx.Date, updated.Date)
}

func TestTransactionRepositoryUpdateTypeMismatch(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)
	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)

	tx, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(10),
		Type:       model.TypeExpense,
		CategoryID: food.ID,
		Date:       "2026-08-15",
		UserID:     user.ID,
	})
	require.NoError(t, err)

	// Moving to an income category without changing the type must fail.
	_, err = repos.Transactions.Update(ctx, tx.ID, model.UpdateTransaction{CategoryID: &salary.ID})
	var mismatch *storage.CategoryTypeMismatchError
	require.True(t, errors.As(err, &mismatch))

	// Changing both together is allowed.
	income := model.TypeIncome
	updated, err := repos.Transactions.Update(ctx, tx.ID, model.UpdateTransaction{
		Type:       &income,
		CategoryID: &salary.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeIncome, updated.Type)
	assert.Equal(t, salary.ID, updated.CategoryID)
}

func TestTransactionRepositoryFindByUserOrder(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	for _, date := range []string{"2026-08-01", "2026-08-20", "2026-08-10"} {
		_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
			Amount:     decimal.NewFromInt(10),
			Type:       model.TypeExpense,
			CategoryID: food.ID,
			Date:       date,
			UserID:     user.ID,
		})
		require.NoError(t, err)
	}

	list, err := repos.Transactions.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-08-20", list[0].Date)
	assert.Equal(t, "2026-08-10", list[1].Date)
	assert.Equal(t, "2026-08-01", list[2].Date)
}

func TestTransactionRepositoryFindRecent(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	for _, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
			Amount:     decimal.NewFromInt(10),
			Type:       model.TypeExpense,
			CategoryID: food.ID,
			Date:       date,
			UserID:     user.ID,
		})
		require.NoError(t, err)
	}

	recent, err := repos.Transactions.FindRecent(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2026-08-03", recent[0].Date)
	assert.Equal(t, "Food", recent[0].CategoryName)
	assert.Equal(t, food.Color, recent[0].Color)
	assert.Equal(t, food.Icon, recent[0].Icon)

	_, err = repos.Transactions.FindRecent(ctx, user.ID, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidLimit)
}

func TestTransactionRepositoryFindWithFilters(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)
	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)

	seed := []model.CreateTransaction{
		{Amount: decimal.NewFromInt(3000), Type: model.TypeIncome, CategoryID: salary.ID, Description: ptr("paycheck"), Date: "2026-08-01", UserID: user.ID},
		{Amount: decimal.NewFromInt(50), Type: model.TypeExpense, CategoryID: food.ID, Description: ptr("groceries"), Date: "2026-08-05", UserID: user.ID},
		{Amount: decimal.NewFromInt(12), Type: model.TypeExpense, CategoryID: food.ID, Description: ptr("coffee beans"), Date: "2026-08-10", UserID: user.ID},
	}
	for _, data := range seed {
		_, err := repos.Transactions.Create(ctx, data)
		require.NoError(t, err)
	}

	byType, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{Type: model.TypeExpense})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byCategory, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{CategoryID: salary.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	byRange, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{
		StartDate: "2026-08-02",
		EndDate:   "2026-08-09",
	})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, "2026-08-05", byRange[0].Date)

	byAmount, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{
		MinAmount: ptr(decimal.NewFromInt(40)),
		MaxAmount: ptr(decimal.NewFromInt(100)),
	})
	require.NoError(t, err)
	require.Len(t, byAmount, 1)
	assert.True(t, byAmount[0].Amount.Equal(decimal.NewFromInt(50)))

	bySearch, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{Search: "coffee"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	all, err := repos.Transactions.FindWithFilters(ctx, user.ID, model.TransactionFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionRepositoryBalanceSummary(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")

	// No transactions yet: the zero summary, not an error.
	summary, err := repos.Transactions.GetBalanceSummary(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.IsZero())
	assert.True(t, summary.Balance.IsZero())
	assert.Zero(t, summary.IncomeCount)
	assert.Zero(t, summary.ExpenseCount)

	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	seed := []model.CreateTransaction{
		{Amount: decimal.NewFromInt(5000), Type: model.TypeIncome, CategoryID: salary.ID, Date: "2026-08-01", UserID: user.ID},
		{Amount: decimal.NewFromInt(100), Type: model.TypeExpense, CategoryID: food.ID, Date: "2026-08-02", UserID: user.ID},
		{Amount: decimal.NewFromInt(50), Type: model.TypeExpense, CategoryID: food.ID, Date: "2026-08-03", UserID: user.ID},
	}
	for _, data := range seed {
		_, err := repos.Transactions.Create(ctx, data)
		require.NoError(t, err)
	}

	summary, err = repos.Transactions.GetBalanceSummary(ctx, user.ID, "", "")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(150)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(4850)))
	assert.Equal(t, int64(1), summary.IncomeCount)
	assert.Equal(t, int64(2), summary.ExpenseCount)
}

func TestTransactionRepositoryBalanceSummaryDateRange(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	seed := []model.CreateTransaction{
		{Amount: decimal.NewFromInt(1000), Type: model.TypeIncome, CategoryID: salary.ID, Date: "2026-06-15", UserID: user.ID},
		{Amount: decimal.NewFromInt(2000), Type: model.TypeIncome, CategoryID: salary.ID, Date: "2026-07-15", UserID: user.ID},
		{Amount: decimal.NewFromInt(300), Type: model.TypeExpense, CategoryID: food.ID, Date: "2026-07-20", UserID: user.ID},
		{Amount: decimal.NewFromInt(400), Type: model.TypeExpense, CategoryID: food.ID, Date: "2026-08-05", UserID: user.ID},
	}
	for _, data := range seed {
		_, err := repos.Transactions.Create(ctx, data)
		require.NoError(t, err)
	}

	// Both bounds: July only.
	summary, err := repos.Transactions.GetBalanceSummary(ctx, user.ID, "2026-07-01", "2026-07-31")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(1700)))

	// Open-ended start: everything up to July.
	summary, err = repos.Transactions.GetBalanceSummary(ctx, user.ID, "", "2026-07-31")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(300)))

	// Open-ended end: everything from July on.
	summary, err = repos.Transactions.GetBalanceSummary(ctx, user.ID, "2026-07-01", "")
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(700)))

	_, err = repos.Transactions.GetBalanceSummary(ctx, user.ID, "july", "")
	require.ErrorIs(t, err, storage.ErrInvalidDate)
}

func TestTransactionRepositoryMonthlyComparison(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	salary := testutil.CreateTestCategory(t, repos, user.ID, "Salary", model.TypeIncome)
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	thisMonth := time.Now().Format("2006-01")
	_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(2000),
		Type:       model.TypeIncome,
		CategoryID: salary.ID,
		Date:       thisMonth + "-05",
		UserID:     user.ID,
	})
	require.NoError(t, err)
	_, err = repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(300),
		Type:       model.TypeExpense,
		CategoryID: food.ID,
		Date:       thisMonth + "-10",
		UserID:     user.ID,
	})
	require.NoError(t, err)

	comparison, err := repos.Transactions.GetMonthlyComparison(ctx, user.ID, 6)
	require.NoError(t, err)
	require.Len(t, comparison, 6, "window is zero-filled to the requested width")

	// Oldest first; months are contiguous.
	for i := 1; i < len(comparison); i++ {
		assert.Less(t, comparison[i-1].Month, comparison[i].Month)
	}

	last := comparison[len(comparison)-1]
	assert.Equal(t, thisMonth, last.Month)
	assert.True(t, last.Income.Equal(decimal.NewFromInt(2000)))
	assert.True(t, last.Expense.Equal(decimal.NewFromInt(300)))
	assert.True(t, last.Balance.Equal(decimal.NewFromInt(1700)))

	// Every empty month reads as zeros, not as a gap.
	for _, row := range comparison[:len(comparison)-1] {
		assert.True(t, row.Income.IsZero())
		assert.True(t, row.Expense.IsZero())
	}

	_, err = repos.Transactions.GetMonthlyComparison(ctx, user.ID, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidMonths)
}

func TestTransactionRepositoryCategoryBreakdown(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)
	rent := testutil.CreateTestCategory(t, repos, user.ID, "Rent", model.TypeExpense)

	seed := []model.CreateTransaction{
		{Amount: decimal.NewFromInt(300), Type: model.TypeExpense, CategoryID: rent.ID, Date: "2026-08-01", UserID: user.ID},
		{Amount: decimal.NewFromInt(100), Type: model.TypeExpense, CategoryID: food.ID, Date: "2026-08-02", UserID: user.ID},
	}
	for _, data := range seed {
		_, err := repos.Transactions.Create(ctx, data)
		require.NoError(t, err)
	}

	breakdown, err := repos.Transactions.GetCategoryBreakdown(ctx, user.ID, model.TypeExpense, "", "")
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	// Largest first, shares of the grand total.
	assert.Equal(t, rent.ID, breakdown[0].CategoryID)
	assert.Equal(t, "Rent", breakdown[0].CategoryName)
	assert.InDelta(t, 75.0, breakdown[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, breakdown[1].Percentage, 0.001)

	total := breakdown[0].Percentage + breakdown[1].Percentage
	assert.InDelta(t, 100.0, total, 0.001)

	// A range with no transactions yields an empty breakdown.
	empty, err := repos.Transactions.GetCategoryBreakdown(ctx, user.ID, model.TypeExpense, "2020-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactionRepositoryTotalByType(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	total, err := repos.Transactions.TotalByType(ctx, user.ID, model.TypeExpense)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	for _, amount := range []int64{15, 35} {
		_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
			Amount:     decimal.NewFromInt(amount),
			Type:       model.TypeExpense,
			CategoryID: food.ID,
			Date:       "2026-08-01",
			UserID:     user.ID,
		})
		require.NoError(t, err)
	}

	total, err = repos.Transactions.TotalByType(ctx, user.ID, model.TypeExpense)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(50)))
}

func TestTransactionRepositoryDelete(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	tx, err := repos.Transactions.Create(ctx, model.CreateTransaction{
		Amount:     decimal.NewFromInt(25),
		Type:       model.TypeExpense,
		CategoryID: food.ID,
		Date:       "2026-08-01",
		UserID:     user.ID,
	})
	require.NoError(t, err)

	deleted, err := repos.Transactions.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repos.Transactions.Delete(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repos.Transactions.FindByID(ctx, tx.ID)
	var notFound storage.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestTransactionRepositoryDeleteByUser(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, repos, "alice")
	bob := testutil.CreateTestUser(t, repos, "bob")
	food := testutil.CreateTestCategory(t, repos, alice.ID, "Food", model.TypeExpense)

	for _, userID := range []int64{alice.ID, alice.ID, bob.ID} {
		_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
			Amount:     decimal.NewFromInt(10),
			Type:       model.TypeExpense,
			CategoryID: food.ID,
			Date:       "2026-08-01",
			UserID:     userID,
		})
		require.NoError(t, err)
	}

	removed, err := repos.Transactions.DeleteByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := repos.Transactions.FindByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestTransactionRepositoryFindByMonth(t *testing.T) {
	repos := testutil.SetupTestRepositories(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, repos, "alice")
	food := testutil.CreateTestCategory(t, repos, user.ID, "Food", model.TypeExpense)

	for _, date := range []string{"2026-07-31", "2026-08-01", "2026-08-31"} {
		_, err := repos.Transactions.Create(ctx, model.CreateTransaction{
			Amount:     decimal.NewFromInt(10),
			Type:       model.TypeExpense,
			CategoryID: food.ID,
			Date:       date,
			UserID:     user.ID,
		})
		require.NoError(t, err)
	}

	august, err := repos.Transactions.FindByMonth(ctx, user.ID, "2026-08")
	require.NoError(t, err)
	assert.Len(t, august, 2)

	_, err = repos.Transactions.FindByMonth(ctx, user.ID, "august")
	assert.ErrorIs(t, err, storage.ErrInvalidDate)
}
